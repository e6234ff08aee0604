// Package engine owns the conversation state machine: given an inbound
// event and the visitor's persisted Profile, it decides the next state,
// triggers side effects (classification, matching, persistence) and
// produces the outbound renderables for the turn.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourhelpa/helpa/internal/channel"
	"github.com/yourhelpa/helpa/internal/classifier"
	"github.com/yourhelpa/helpa/internal/matching"
	"github.com/yourhelpa/helpa/internal/storage"
	"github.com/yourhelpa/helpa/pkg/intent"
	"github.com/yourhelpa/helpa/pkg/location"
	"github.com/yourhelpa/helpa/pkg/message"
	"github.com/yourhelpa/helpa/pkg/profile"
)

// Engine processes one turn per inbound event.
type Engine struct {
	storage    storage.Storage
	classifier *classifier.Classifier
	matcher    matching.Provider
	logger     *slog.Logger

	storageTimeout  time.Duration
	matchingTimeout time.Duration
}

func New(
	store storage.Storage,
	clf *classifier.Classifier,
	matcher matching.Provider,
	storageTimeout time.Duration,
	matchingTimeout time.Duration,
	logger *slog.Logger,
) *Engine {
	if storageTimeout <= 0 {
		storageTimeout = 5 * time.Second
	}
	if matchingTimeout <= 0 {
		matchingTimeout = 10 * time.Second
	}
	return &Engine{
		storage:         store,
		classifier:      clf,
		matcher:         matcher,
		logger:          logger,
		storageTimeout:  storageTimeout,
		matchingTimeout: matchingTimeout,
	}
}

// HandleEvent runs one full turn: load, classify, step, persist. It never
// returns an empty reply and never lets a failure escape the turn.
func (e *Engine) HandleEvent(ctx context.Context, event channel.Event) (outbound []message.Renderable) {
	p := e.loadProfile(ctx, event)

	// Single top-level safety net: an unexpected panic forces the visitor
	// back to the main menu with an apology.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Turn processing panicked", "visitor_id", event.VisitorID, "panic", r)
			p.State = profile.StateMainMenu
			e.saveProfile(ctx, p)
			outbound = []message.Renderable{apology()}
		}
	}()

	input := event.Input()
	parsed := e.classifier.Classify(ctx, input, p)

	e.logger.Info("Turn",
		"visitor_id", p.VisitorID,
		"state", p.State,
		"intent", parsed.Tag)

	next, outbound := e.Step(ctx, p, parsed, input)

	// Candidates only live in AWAITING_SELECTION; clearing here guards
	// every transition at once against stale-index selection.
	if next.State != profile.StateAwaitingSelection {
		next.Candidates = nil
	}

	e.saveProfile(ctx, next)
	return outbound
}

// loadProfile degrades to a fresh default Profile when the store is
// unreachable: the visitor is silently re-onboarded rather than blocked.
func (e *Engine) loadProfile(ctx context.Context, event channel.Event) *profile.Profile {
	loadCtx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	p, err := e.storage.LoadProfile(loadCtx, event.VisitorID)
	if err != nil || p == nil {
		e.logger.Error("Profile load failed, using default", "visitor_id", event.VisitorID, "error", err)
		p = profile.NewProfile(event.VisitorID, event.DisplayName)
	}
	if p.DisplayName == "" && event.DisplayName != "" {
		p.DisplayName = event.DisplayName
	}
	return p
}

// saveProfile is fire-and-forget from the turn's perspective: a failed
// save is reported but the reply computed from the in-memory Profile is
// still delivered.
func (e *Engine) saveProfile(ctx context.Context, p *profile.Profile) {
	saveCtx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	if err := e.storage.SaveProfile(saveCtx, p); err != nil {
		e.logger.Error("Profile save failed, replying from in-memory state",
			"visitor_id", p.VisitorID, "error", err)
	}
}

// Step is the transition function: it returns a new Profile and the
// outbound renderables, leaving the input Profile untouched. The matcher
// call during SEARCHING is its only external side effect.
func (e *Engine) Step(ctx context.Context, p *profile.Profile, in intent.Intent, raw string) (*profile.Profile, []message.Renderable) {
	next := p.Clone()

	// Universal escape hatch: ENTRY always lands on the menu, and an
	// explicit MENU intent is honored from every state.
	if p.State == profile.StateEntry || in.IsMenu() {
		firstTime := p.State == profile.StateEntry
		next.State = profile.StateMainMenu
		return next, []message.Renderable{mainMenu(next, firstTime)}
	}

	switch p.State {
	case profile.StateMainMenu:
		return e.stepMainMenu(next, in)

	case profile.StateCollectingRequest:
		if isFreeText(in, raw) {
			seedRequest(next, in, raw)
			next.State = profile.StateConfirmingRequest
			return next, []message.Renderable{confirmRequestPrompt(next)}
		}

	case profile.StateConfirmingRequest:
		switch {
		case in.IsConfirm():
			next.State = profile.StateAwaitingLocation
			return next, []message.Renderable{locationPrompt(next)}
		case in.IsCorrect():
			next.State = profile.StateCorrectingRequest
			return next, []message.Renderable{correctionPrompt()}
		}
		// Never silent, never skip: re-emit the same confirmation.
		return next, []message.Renderable{confirmRequestPrompt(next)}

	case profile.StateCorrectingRequest:
		if isFreeText(in, raw) {
			mergeCorrection(&next.Request, in, raw)
			next.State = profile.StateConfirmingRequest
			return next, []message.Renderable{confirmRequestPrompt(next)}
		}

	case profile.StateAwaitingLocation:
		switch {
		case in.IsConfirm():
			return e.runSearch(ctx, next)
		case in.Tag == intent.ActionCorrectLocation:
			return next, []message.Renderable{askForLocation()}
		case isFreeText(in, raw) || in.City != "":
			locText := in.City
			if locText == "" {
				locText = raw
			}
			city, region := location.Parse(locText, next.Request.RegionState)
			if city != "" {
				next.Request.City = city
				next.Request.RegionState = region
			}
			return e.runSearch(ctx, next)
		}

	case profile.StateAwaitingSelection:
		if id := in.Selection(); id != "" {
			candidate := next.FindCandidate(id)
			if candidate == nil {
				// Stale or corrupted selection: keep state and re-prompt.
				e.logger.Warn("Selection did not resolve", "visitor_id", p.VisitorID, "candidate_id", id)
				return next, []message.Renderable{reSelectPrompt(next), candidateList(next)}
			}
			sel := *candidate
			next.Selection = &sel
			next.State = profile.StateAwaitingFinalConfirm
			return next, []message.Renderable{finalConfirmPrompt(next)}
		}

	case profile.StateAwaitingFinalConfirm:
		if in.IsConfirm() {
			// Idempotent minting: never regenerate for the same booking.
			if next.TransactionID == "" {
				next.TransactionID = uuid.NewString()
			}
			next.State = profile.StatePaymentPending
			return next, []message.Renderable{paymentInstructions(next)}
		}
		// Anything short of a confirm falls back to the menu.
		next.State = profile.StateMainMenu
		return next, []message.Renderable{mainMenu(next, false)}

	case profile.StatePaymentPending:
		return next, []message.Renderable{awaitingPaymentNotice(next)}
	}

	// Default policy for every unrouted (state, intent) pair: guidance
	// message, state unchanged.
	return next, []message.Renderable{guidance(next)}
}

func (e *Engine) stepMainMenu(next *profile.Profile, in intent.Intent) (*profile.Profile, []message.Renderable) {
	switch in.Tag {
	case intent.TagGreeting:
		return next, []message.Renderable{mainMenu(next, false)}

	case intent.ActionFindService, intent.TagServiceRequest:
		return startRequest(next, profile.KindService, in)

	case intent.ActionBuyItem, intent.TagProductRequest:
		return startRequest(next, profile.KindItem, in)

	case intent.ActionChangePersona:
		if next.Persona == profile.PersonaKore {
			next.Persona = profile.PersonaBukky
		} else {
			next.Persona = profile.PersonaKore
		}
		return next, []message.Renderable{personaSwitched(next), mainMenu(next, false)}

	case intent.ActionRegisterMe:
		next.Role = profile.RoleProvider
		return next, []message.Renderable{providerWelcome(), mainMenu(next, false)}

	case intent.ActionMyActive, intent.ActionReportIssue, intent.ActionSupport:
		return next, []message.Renderable{comingSoon(in.Tag), mainMenu(next, false)}
	}

	return next, []message.Renderable{guidance(next)}
}

// startRequest begins a new request cycle, clearing everything from the
// previous one except the visitor's last known location.
func startRequest(next *profile.Profile, kind string, in intent.Intent) (*profile.Profile, []message.Renderable) {
	next.Request = profile.Request{
		Kind:        kind,
		City:        next.Request.City,
		RegionState: next.Request.RegionState,
	}
	next.Selection = nil
	next.TransactionID = ""
	next.Role = roleForRequest(next.Role)

	seedSlots(&next.Request, in)

	if next.Request.Complete() {
		next.State = profile.StateConfirmingRequest
		return next, []message.Renderable{confirmRequestPrompt(next)}
	}
	next.State = profile.StateCollectingRequest
	return next, []message.Renderable{askForDetails(next)}
}

// roleForRequest marks a visitor as a requester on their first request
// without demoting registered providers.
func roleForRequest(role string) string {
	if role == profile.RoleUnassigned {
		return profile.RoleRequester
	}
	return role
}

// runSearch is the SEARCHING passage: entry and exit happen within one
// step. The state exists as a named point for observability and to keep
// the matcher call an explicit, testable side effect.
func (e *Engine) runSearch(ctx context.Context, next *profile.Profile) (*profile.Profile, []message.Renderable) {
	next.State = profile.StateSearching
	e.logger.Info("Searching for candidates",
		"visitor_id", next.VisitorID,
		"kind", next.Request.Kind,
		"category", next.Request.Category,
		"city", next.Request.City)

	findCtx, cancel := context.WithTimeout(ctx, e.matchingTimeout)
	defer cancel()

	candidates, err := e.matcher.Find(findCtx, matching.Criteria{
		Kind:        next.Request.Kind,
		Category:    next.Request.Category,
		Summary:     next.Request.Summary,
		City:        next.Request.City,
		RegionState: next.Request.RegionState,
		Budget:      next.Request.Budget,
	})
	if err != nil {
		e.logger.Error("Matching failed", "visitor_id", next.VisitorID, "error", err)
		candidates = nil
	}

	if len(candidates) == 0 {
		next.State = profile.StateMainMenu
		return next, []message.Renderable{noMatches(next), mainMenu(next, false)}
	}

	if len(candidates) > matching.MaxCandidates {
		candidates = candidates[:matching.MaxCandidates]
	}
	next.Candidates = candidates
	next.State = profile.StateAwaitingSelection
	return next, []message.Renderable{candidateList(next)}
}

// seedRequest fills the missing slot from a collecting-state reply,
// preferring extracted slots over the raw text.
func seedRequest(next *profile.Profile, in intent.Intent, raw string) {
	seedSlots(&next.Request, in)
	if next.Request.Category == "" && next.Request.Summary == "" {
		next.Request.Category = raw
		next.Request.Summary = raw
	}
}

func seedSlots(req *profile.Request, in intent.Intent) {
	if in.Category != "" {
		req.Category = in.Category
	}
	if in.Summary != "" {
		req.Summary = in.Summary
	}
	if in.City != "" {
		req.City, req.RegionState = location.Parse(in.City, req.RegionState)
	}
}

// mergeCorrection applies a partial update: only the fields the
// correction extraction actually produced overwrite the pending request.
func mergeCorrection(req *profile.Request, in intent.Intent, raw string) {
	if in.Category == "" && in.Summary == "" && in.City == "" {
		// Nothing extracted: the raw text replaces the disputed subject.
		req.Category = raw
		req.Summary = raw
		return
	}
	seedSlots(req, in)
}

// isFreeText reports whether the turn's input should be treated as free
// text rather than a control action.
func isFreeText(in intent.Intent, raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	switch {
	case strings.HasPrefix(in.Tag, "OPT_"),
		strings.HasPrefix(in.Tag, "CONFIRM_"),
		strings.HasPrefix(in.Tag, "CORRECT_"),
		strings.HasPrefix(in.Tag, intent.SelectPrefix):
		return false
	}
	return in.Tag != intent.TagMenu && in.Tag != intent.TagConfirm && in.Tag != intent.TagCorrect
}
