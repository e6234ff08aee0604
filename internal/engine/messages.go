package engine

import (
	"fmt"

	"github.com/yourhelpa/helpa/pkg/intent"
	"github.com/yourhelpa/helpa/pkg/message"
	"github.com/yourhelpa/helpa/pkg/persona"
	"github.com/yourhelpa/helpa/pkg/profile"
)

// Assistant copy is template-built from the persona table so every
// non-free-text turn is deterministic. The language model is only
// consulted for classification, never for reply wording.

func mainMenu(p *profile.Profile, firstTime bool) message.Renderable {
	active := persona.Get(p.Persona)
	other := persona.Other(p.Persona)

	name := p.DisplayName
	if name == "" {
		name = "there"
	}

	var body string
	if firstTime {
		body = fmt.Sprintf("Hey *%s*! I'm %s, your plug for buying, selling, and hiring services in Lagos and Oyo State. What's the plan?", name, active.Name)
	} else {
		body = fmt.Sprintf("I'm ready when you are, *%s*! What's next?", name)
	}

	quickRows := []message.Row{
		{ID: intent.ActionFindService, Title: "🛠️ Request a Service"},
		{ID: intent.ActionBuyItem, Title: "🛍️ Find an Item"},
		{ID: intent.ActionMyActive, Title: "💼 Ongoing Transactions"},
		{ID: intent.ActionReportIssue, Title: "🚨 Report an Issue"},
	}
	if p.Role == profile.RoleUnassigned {
		quickRows = append(quickRows, message.Row{ID: intent.ActionRegisterMe, Title: "🌟 Become a Provider"})
	}

	return message.NewList(message.ListPrompt{
		Header: fmt.Sprintf("%s's Main Menu", active.Name),
		Body:   body,
		Button: "View Options",
		Footer: "Use the list below!",
		Sections: []message.Section{
			{Title: "Quick Actions", Rows: quickRows},
			{Title: "Settings", Rows: []message.Row{
				{ID: intent.ActionSupport, Title: "⚙️ Support/Help"},
				{ID: intent.ActionChangePersona, Title: fmt.Sprintf("🔄 Switch to %s", other.Name)},
			}},
		},
	})
}

func askForDetails(p *profile.Profile) message.Renderable {
	if p.Request.Kind == profile.KindItem {
		return message.NewText("Got you! What item are you looking for? A short description works best.")
	}
	return message.NewText("Nice! What service do you need? Tell me in a few words (e.g. plumber, generator repair).")
}

func confirmRequestPrompt(p *profile.Profile) message.Renderable {
	subject := p.Request.Category
	if subject == "" {
		subject = p.Request.Summary
	}
	noun := "service"
	if p.Request.Kind == profile.KindItem {
		noun = "item"
	}
	return message.NewButtons(
		fmt.Sprintf("Let me confirm: you want this %s — *%s*. Correct?", noun, subject),
		intent.ActionConfirmRequest,
		intent.ActionCorrectRequest,
		chattingFooter(p),
	)
}

func correctionPrompt() message.Renderable {
	return message.NewText("No wahala — what should it be instead? Type the correct detail.")
}

func locationPrompt(p *profile.Profile) message.Renderable {
	var body string
	if p.Request.Kind == profile.KindItem {
		body = "Got you! I'll help you find the item. Confirm the location first."
	} else {
		body = "Nice! Let's get you the right service provider. Confirm the location first."
	}
	return message.NewButtons(
		body,
		intent.ActionConfirmLocation,
		intent.ActionCorrectLocation,
		fmt.Sprintf("Current: %s, %s", p.Request.City, p.Request.RegionState),
	)
}

func askForLocation() message.Renderable {
	return message.NewText("Type your city so I search the right area (e.g. Ikeja, Lagos).")
}

func candidateList(p *profile.Profile) message.Renderable {
	rows := make([]message.Row, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		description := c.Description
		if c.Price != "" {
			description = fmt.Sprintf("%s · %s", c.Price, c.Description)
		}
		rows = append(rows, message.Row{
			ID:          intent.SelectPrefix + c.ID,
			Title:       c.Name,
			Description: description,
		})
	}

	return message.NewList(message.ListPrompt{
		Header: "Here's what I found",
		Body:   fmt.Sprintf("Top matches in %s. Pick one to continue.", p.Request.City),
		Button: "See Matches",
		Footer: chattingFooter(p),
		Sections: []message.Section{
			{Title: "Matches", Rows: rows},
		},
	})
}

func reSelectPrompt(p *profile.Profile) message.Renderable {
	return message.NewText("Hmm, I couldn't find that option. Pick one of the matches from the list I sent.")
}

func finalConfirmPrompt(p *profile.Profile) message.Renderable {
	sel := p.Selection
	body := "Ready to book?"
	if sel != nil {
		body = fmt.Sprintf("Ready to book *%s* (%s, %s)? I'll set up the payment next.", sel.Name, sel.Title, sel.Price)
	}
	return message.NewButtons(
		body,
		intent.ActionConfirmBooking,
		intent.ActionCorrectBooking,
		chattingFooter(p),
	)
}

func paymentInstructions(p *profile.Profile) message.Renderable {
	name := "your provider"
	if p.Selection != nil {
		name = p.Selection.Name
	}
	return message.NewText(fmt.Sprintf(
		"Booking confirmed with %s! 🎉 Your transaction ref is *%s*. Complete payment with the secure link we send next — your money is held until the job is done.",
		name, p.TransactionID))
}

func awaitingPaymentNotice(p *profile.Profile) message.Renderable {
	return message.NewText(fmt.Sprintf(
		"Still waiting on payment for transaction *%s*. Type MENU if you want to do something else.",
		p.TransactionID))
}

func noMatches(p *profile.Profile) message.Renderable {
	return message.NewText(fmt.Sprintf(
		"Ah, nothing matched in %s just yet. Try a different category or location from the menu.",
		p.Request.City))
}

func comingSoon(action string) message.Renderable {
	return message.NewText(fmt.Sprintf("%s is coming soon! Meanwhile, here's what I can do right now.", actionLabel(action)))
}

func personaSwitched(p *profile.Profile) message.Renderable {
	active := persona.Get(p.Persona)
	return message.NewText(fmt.Sprintf("You're now chatting with %s. %s", active.Name, "Let's continue!"))
}

func providerWelcome() message.Renderable {
	return message.NewText("Love it! You're registered as a provider. 🌟 We'll reach out as jobs match your area.")
}

// guidance is the no-silence fallback: a state-appropriate nudge with the
// state left unchanged.
func guidance(p *profile.Profile) message.Renderable {
	switch p.State {
	case profile.StateMainMenu:
		return message.NewText("I didn't quite get that. Pick an option from the menu, or describe what you need (e.g. \"I need a plumber in Ibadan\").")
	case profile.StateCollectingRequest:
		return message.NewText("Just tell me in a few words what you need, and I'll take it from there.")
	case profile.StateConfirmingRequest:
		return confirmRequestPrompt(p)
	case profile.StateCorrectingRequest:
		return message.NewText("Type the corrected detail and I'll update your request.")
	case profile.StateAwaitingLocation:
		return locationPrompt(p)
	case profile.StateAwaitingSelection:
		return reSelectPrompt(p)
	default:
		return message.NewText("I'm waiting on you! Type MENU to see what I can do.")
	}
}

func apology() message.Renderable {
	return message.NewText("Oops! Something went wrong on my end. Type MENU to start again.")
}

func chattingFooter(p *profile.Profile) string {
	return "Chatting with " + persona.Get(p.Persona).Name
}

func actionLabel(action string) string {
	switch action {
	case intent.ActionMyActive:
		return "Ongoing Transactions"
	case intent.ActionReportIssue:
		return "Issue Reporting"
	case intent.ActionSupport:
		return "Support"
	default:
		return "That"
	}
}
