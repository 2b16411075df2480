// Package event holds the featured event shown after a survey and the feedback emotions for it.
package event

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

type Speaker struct {
	ID      string
	Name    string
	Role    string
	Company string
}

type ScheduleItem struct {
	ID          string
	Time        string
	Title       string
	Speaker     string
	Description string
}

type Event struct {
	Title       string
	Date        string
	Location    string
	Description string
	Price       string
	Speakers    []Speaker
	Schedule    []ScheduleItem
}

// Featured returns the event recommended after every survey.
func Featured() Event {
	return Event{
		Title:       "Tech Innovation Summit 2025",
		Date:        "March 15-17, 2025",
		Location:    "Convention Center, San Francisco",
		Description: "Join us for the biggest tech innovation event of the year. Network with industry leaders, attend workshops, and discover the latest technological advancements.",
		Price:       "$299",
		Speakers: []Speaker{
			{ID: "1", Name: "Sarah Johnson", Role: "Chief Technology Officer", Company: "FutureTech Inc."},
			{ID: "2", Name: "Michael Chen", Role: "AI Research Director", Company: "DeepMind Systems"},
			{ID: "3", Name: "Aisha Patel", Role: "Blockchain Specialist", Company: "Crypto Innovations"},
		},
		Schedule: []ScheduleItem{
			{ID: "1", Time: "9:00 AM - 10:00 AM", Title: "Registration & Breakfast",
				Description: "Check-in at the main hall and enjoy networking breakfast"},
			{ID: "2", Time: "10:00 AM - 11:30 AM", Title: "Keynote: The Future of AI", Speaker: "Sarah Johnson",
				Description: "Exploring how artificial intelligence will shape business and society in the next decade"},
			{ID: "3", Time: "11:45 AM - 12:45 PM", Title: "Workshop: Blockchain Applications", Speaker: "Aisha Patel",
				Description: "Hands-on session demonstrating practical applications of blockchain technology"},
			{ID: "4", Time: "1:00 PM - 2:00 PM", Title: "Lunch Break",
				Description: "Networking lunch in the main hall"},
		},
	}
}

type Emotion struct {
	ID          string
	Emoji       string
	Label       string
	Description string
}

var emotions = []Emotion{
	{"excited", "🤩", "Excited", "The event exceeded my expectations!"},
	{"happy", "😊", "Happy", "I enjoyed the event and found it valuable."},
	{"neutral", "😐", "Neutral", "The event was okay, but could be improved."},
	{"disappointed", "😕", "Disappointed", "The event didn't meet my expectations."},
	{"frustrated", "😤", "Frustrated", "I experienced issues that affected my experience."},
	{"inspired", "💡", "Inspired", "I left with many new ideas and insights."},
	{"overwhelmed", "🥴", "Overwhelmed", "There was too much information to process."},
	{"bored", "🥱", "Bored", "The content wasn't engaging enough."},
}

func Emotions() []Emotion {
	out := make([]Emotion, len(emotions))
	copy(out, emotions)
	return out
}

func LookupEmotion(id string) (Emotion, bool) {
	for _, e := range emotions {
		if e.ID == id {
			return e, true
		}
	}
	return Emotion{}, false
}

var (
	ErrNoEmotion      = errors.New("no emotion selected")
	ErrUnknownEmotion = errors.New("unknown emotion")
)

// NoEmotionNotice is shown when feedback is submitted without a selection.
var NoEmotionNotice = model.Notice{Title: "Feedback", Message: "Please select an emotion before submitting"}

// NewFeedback builds a feedback entry for eventTitle. emotionID must name one of Emotions.
func NewFeedback(emotionID, eventTitle string) (model.Feedback, error) {
	if emotionID == "" {
		return model.Feedback{}, ErrNoEmotion
	}
	if _, ok := LookupEmotion(emotionID); !ok {
		return model.Feedback{}, ErrUnknownEmotion
	}
	return model.Feedback{
		ID:         uuid.NewString(),
		Emotion:    emotionID,
		EventTitle: eventTitle,
		CreatedAt:  time.Now(),
	}, nil
}
