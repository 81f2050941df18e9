package services

import "strings"

// ChatbotService is a rule-based responder for common platform questions
type ChatbotService struct{}

// NewChatbotService creates a new chatbot service
func NewChatbotService() *ChatbotService {
	return &ChatbotService{}
}

type chatbotRule struct {
	keywords []string
	reply    string
}

var chatbotRules = []chatbotRule{
	{
		keywords: []string{"register", "registration", "sign up"},
		reply:    "To register for a competition: browse competitions, open the one you're interested in and click 'Register Now'. Your registration will be pending admin approval. You need to be logged in to register.",
	},
	{
		keywords: []string{"find", "search", "competition", "event"},
		reply:    "You can browse all competitions on the Competitions page. Use the search bar to find competitions by name, or filter by category. You can also sort by trending, most registrations, or newest.",
	},
	{
		keywords: []string{"trending", "popular", "top"},
		reply:    "Check out the Competitions page sorted by 'Most Registrations' to see the most popular events.",
	},
	{
		keywords: []string{"calendar", "schedule", "upcoming", "date"},
		reply:    "View the Event Calendar to see all upcoming competitions, organized by day.",
	},
	{
		keywords: []string{"status", "approved", "pending"},
		reply:    "Check your registration status in your Dashboard under 'My Registrations'. Registrations can be Pending (waiting for approval) or Approved.",
	},
	{
		keywords: []string{"login", "account", "password", "forgot"},
		reply:    "To login, visit the login page. For new accounts, register on the signup page.",
	},
	{
		keywords: []string{"contact", "support", "help", "chat"},
		reply:    "For live support, use the Chat feature to message our support team directly. We're available to help with any questions about competitions or registrations.",
	},
	{
		keywords: []string{"category", "technical", "cultural", "sports", "academic", "workshop"},
		reply:    "We have competitions in several categories: Technical, Cultural, Sports, Academic and Workshop. Filter by category on the Competitions page.",
	},
	{
		keywords: []string{"hello", "hi", "hey", "greet"},
		reply:    "Hello! I'm the Taakra assistant. I can help you find competitions, understand the registration process, check schedules, and more. What would you like to know?",
	},
	{
		keywords: []string{"thank"},
		reply:    "You're welcome! Feel free to ask if you need any more help with competitions or events at Taakra.",
	},
}

const chatbotFallback = "I can help you with finding competitions, the registration process and status, event schedules, category information, account help, and contacting support. What would you like to know more about?"

// Respond returns a canned answer for the first rule whose keyword
// matches the message
func (s *ChatbotService) Respond(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range chatbotRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return chatbotFallback
}
