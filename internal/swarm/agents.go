// Package swarm holds the five persona prompt templates. A "swarm" is a
// single prompt sent to a single model call.
package swarm

import "fmt"

// Agent is one persona tab.
type Agent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	preamble string
	closing  string
}

// BuildPrompt embeds the raw user input into the persona template.
func (a Agent) BuildPrompt(input string) string {
	return fmt.Sprintf("%s:\n\n\"%s\"\n\n%s", a.preamble, input, a.closing)
}

// Label is the tab title.
func (a Agent) Label() string {
	return a.Emoji + " " + a.Name
}

// Placeholder is the hint shown in the empty input box.
func (a Agent) Placeholder() string {
	if a.ID == MentalHealthID {
		return "What can you do?"
	}
	return fmt.Sprintf("Ask the %s...", a.Name)
}

const (
	MentalHealthID   = "mental-health"
	BusinessPolicyID = "business-policy"
	DoctorID         = "doctor"
	EngineerID       = "engineer"
	NumerologyID     = "numerology"
)

var agents = []Agent{
	{
		ID:       MentalHealthID,
		Name:     "Mental Health Coach Swarm",
		Emoji:    "🧠",
		Color:    "blue",
		preamble: "You are a swarm of compassionate mental health coaches. Collaborate to provide supportive, practical, and empathetic advice for the following user concern",
		closing:  "Respond as a team, offering actionable steps and emotional support.",
	},
	{
		ID:       BusinessPolicyID,
		Name:     "Business Policy Swarm",
		Emoji:    "📊",
		Color:    "green",
		preamble: "You are a swarm of business policy experts. Work together to analyze and provide clear, strategic advice for this business scenario or question",
		closing:  "Respond as a team, considering best practices and potential risks.",
	},
	{
		ID:       DoctorID,
		Name:     "Doctor Swarm",
		Emoji:    "🩺",
		Color:    "pink",
		preamble: "You are a swarm of experienced doctors. Collaborate to give safe, informative, and helpful medical advice for the following concern (remind the user to consult a real doctor for emergencies)",
		closing:  "Respond as a team, considering different perspectives.",
	},
	{
		ID:       EngineerID,
		Name:     "Engineer Swarm",
		Emoji:    "🛠️",
		Color:    "yellow",
		preamble: "You are a swarm of engineers from various fields. Work together to solve or explain the following technical problem or question",
		closing:  "Respond as a team, offering practical and creative solutions.",
	},
	{
		ID:       NumerologyID,
		Name:     "Numerology + Spiritual Swarm",
		Emoji:    "🔮",
		Color:    "purple",
		preamble: "You are a swarm of numerologists and spiritual guides. Collaborate to provide insights, interpretations, and guidance for the following question or situation",
		closing:  "Respond as a team, blending numerology and spiritual wisdom.",
	},
}

// All returns the agents in tab order. The slice is a copy.
func All() []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	return out
}

// ByID looks up an agent by its slug.
func ByID(id string) (Agent, bool) {
	for _, a := range agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// First is the tab shown when none is selected.
func First() Agent {
	return agents[0]
}
