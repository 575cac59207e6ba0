package main

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/luxethreads/storefront-web/internal/api"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// ChatMessageView renders one assistant exchange inside the widget.
type ChatMessageView struct {
	Lang      string
	UserText  string
	Reply     template.HTML
	AgentType string
	Actions   []ChatActionView
	NextSteps []string
	Error     string
}

// ChatLogView restores a stored transcript when the widget loads.
type ChatLogView struct {
	Lang  string
	Lines []ChatLogLine
}

// ChatLogLine is one transcript message, user or assistant.
type ChatLogLine struct {
	Role  string
	Agent string
	Text  string
	HTML  template.HTML
}

var chatMarkdown = goldmark.New()
var chatSanitize = bluemonday.UGCPolicy()

// renderChatMarkdown renders an assistant reply as sanitized HTML.
func renderChatMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := chatMarkdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(chatSanitize.SanitizeBytes(buf.Bytes()))
}

// ChatActionView is a clickable follow-up suggested by the assistant.
type ChatActionView struct {
	Label string
	Href  string
}

// ChatMessageHandler posts a shopper message to the styling assistant
// and renders the exchange fragment. The chat session ID sticks to the
// storefront session so the conversation keeps its context.
func ChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}

	sess := mw.GetSession(r)
	if sess.ChatSessionID == "" {
		sess.ChatSessionID = uuid.NewString()
		sess.MarkDirty()
	}
	userID := "guest"
	if sess.UserID > 0 {
		userID = strconv.Itoa(sess.UserID)
	}

	view := ChatMessageView{Lang: lang, UserText: message}
	res, err := apiClient.Chat(r.Context(), api.ChatRequest{
		SessionID: sess.ChatSessionID,
		UserID:    userID,
		Message:   message,
	})
	if err != nil {
		view.Error = i18nOrDefault(lang, "chat.error", "The stylist is unavailable right now. Please try again.")
		renderTemplate(w, r, "frag_chat_message", view)
		return
	}

	view.Reply = renderChatMarkdown(res.Response)
	view.AgentType = res.AgentType
	view.NextSteps = res.NextSteps
	for _, a := range res.SuggestedActions {
		if v := chatActionView(a); v.Label != "" {
			view.Actions = append(view.Actions, v)
		}
	}
	renderTemplate(w, r, "frag_chat_message", view)
}

// ChatLogFrag replays the stored transcript so a returning shopper
// sees the conversation where they left it. Missing or expired
// sessions render an empty log.
func ChatLogFrag(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	view := ChatLogView{Lang: mw.Lang(r)}
	if sess.ChatSessionID != "" {
		if hist, err := apiClient.ChatHistory(r.Context(), sess.ChatSessionID); err == nil {
			for _, m := range hist.Messages {
				line := ChatLogLine{Role: m.Type, Agent: m.Agent}
				if m.Type == "user" {
					line.Text = m.Content
				} else {
					line.HTML = renderChatMarkdown(m.Content)
				}
				view.Lines = append(view.Lines, line)
			}
		}
	}
	renderTemplate(w, r, "frag_chat_history", view)
}

// ChatResetHandler discards the conversation.
func ChatResetHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if sess.ChatSessionID != "" {
		_ = apiClient.DeleteChatSession(r.Context(), sess.Token, sess.ChatSessionID)
		sess.ChatSessionID = ""
		sess.MarkDirty()
	}
	renderTemplate(w, r, "frag_chat_reset", map[string]any{"Lang": mw.Lang(r)})
}

// chatActionView maps an assistant action onto a storefront link.
func chatActionView(a api.SuggestedAction) ChatActionView {
	label := a.Label
	if label == "" {
		label = a.Name
	}
	switch a.Action {
	case "view_product", "add_to_cart":
		if a.ProductID > 0 {
			return ChatActionView{Label: label, Href: "/shop/" + strconv.Itoa(a.ProductID)}
		}
	case "view_cart":
		return ChatActionView{Label: label, Href: "/cart"}
	case "checkout":
		return ChatActionView{Label: label, Href: "/checkout"}
	case "view_orders", "track_order":
		return ChatActionView{Label: label, Href: "/orders"}
	case "browse_category":
		if a.Category != "" {
			return ChatActionView{Label: label, Href: "/shop?category=" + a.Category}
		}
		return ChatActionView{Label: label, Href: "/shop"}
	}
	if label != "" {
		return ChatActionView{Label: label, Href: "/shop"}
	}
	return ChatActionView{}
}
