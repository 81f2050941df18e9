package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatbotKeywordMatch(t *testing.T) {
	bot := NewChatbotService()

	reply := bot.Respond("How do I REGISTER for an event?")
	require.Contains(t, reply, "pending admin approval")

	reply = bot.Respond("hello there")
	require.Contains(t, reply, "Taakra assistant")
}

func TestChatbotFallback(t *testing.T) {
	bot := NewChatbotService()

	reply := bot.Respond("qwertyuiop")
	require.Equal(t, chatbotFallback, reply)
}

func TestChatbotFirstRuleWins(t *testing.T) {
	bot := NewChatbotService()

	// "registration" matches before "status" by rule order.
	reply := bot.Respond("what is my registration status")
	require.Contains(t, reply, "Register Now")
}
