// ABOUTME: Billing tab for the signed-in account
// ABOUTME: Sign in and out, credit balance, and checkout for credit packs
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/leadgen/models"
	"github.com/harperreed/leadgen/store"
)

type checkoutMsg struct {
	url string
	err error
}

func (m Model) handleBillingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	signedIn := m.state().Authenticated()

	switch msg.String() {
	case "up", "k":
		if m.selectedPack > 0 {
			m.selectedPack--
		}
	case "down", "j":
		if m.selectedPack < len(models.CreditPacks)-1 {
			m.selectedPack++
		}
	case "g":
		if signedIn {
			return m, nil
		}
		source := m.opts.IDTokenSource
		return m, m.run("login", func(ctx context.Context) error {
			if source == nil {
				return m.dash.Login(ctx, "")
			}
			token, err := source(ctx)
			if err != nil {
				m.dash.Store().SetMessage("Google login failed", store.SeverityError)
				return err
			}
			return m.dash.Login(ctx, token)
		})
	case "o":
		if !signedIn {
			return m, nil
		}
		return m, m.run("logout", m.dash.Logout)
	case "r":
		if !signedIn {
			return m, nil
		}
		return m, m.run("credits", func(ctx context.Context) error {
			_, err := m.dash.RefreshCredits(ctx)
			return err
		})
	case "enter", "b":
		if !signedIn {
			m.dash.Store().SetMessage("Sign in to buy credits", store.SeverityWarning)
			return m, nil
		}
		dash, ctx := m.dash, m.ctx
		pack := models.CreditPacks[m.selectedPack].ID
		return m, func() tea.Msg {
			url, err := dash.Checkout(ctx, pack)
			return checkoutMsg{url: url, err: err}
		}
	}
	return m, nil
}

func (m Model) handleCheckout(msg checkoutMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, nil
	}
	open := m.opts.OpenURL
	if open == nil {
		open = func(string) error { return errors.New("no browser configured") }
	}
	if err := open(msg.url); err != nil {
		m.dash.Store().SetMessage("Open this link to pay: "+msg.url, store.SeverityInfo)
		return m, nil
	}
	m.dash.Store().SetMessage("Checkout opened in your browser. Press r once payment completes.", store.SeverityInfo)
	return m, nil
}

func (m Model) renderBillingView(st store.State) string {
	var s strings.Builder

	s.WriteString(sectionStyle.Render("Account"))
	s.WriteString("\n\n")
	if st.User == nil {
		s.WriteString(mutedStyle.Render("Not signed in. Press g to sign in with Google."))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("g: sign in • 1-5: tabs • q: quit"))
		return s.String()
	}

	s.WriteString(labelStyle.Render("Name:"))
	s.WriteString(st.User.Name)
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Email:"))
	s.WriteString(st.User.Email)
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Credits:"))
	s.WriteString(creditsStyle.Render(creditsLabel(st.Credits)))
	s.WriteString("\n\n")

	s.WriteString(sectionStyle.Render("Buy credits"))
	s.WriteString("\n\n")
	for i, pack := range models.CreditPacks {
		line := fmt.Sprintf("%-8s %s", pack.ID, pack.Label)
		if i == m.selectedPack {
			s.WriteString(selectedStyle.Render("> " + line))
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("↑/↓: pack • enter: checkout • r: refresh credits • o: sign out • 1-5: tabs • q: quit"))
	return s.String()
}
