package model

// IntentCategory is the coarse bucket a user message falls into.
type IntentCategory string

const (
	// IntentGeneral covers education, greetings, and help requests.
	IntentGeneral IntentCategory = "general"
	// IntentContextData covers read-only queries over stored data.
	IntentContextData IntentCategory = "context_data"
	// IntentInteractionData covers actions that mutate stored data.
	IntentInteractionData IntentCategory = "interaction_data"
)

// IntentType is the specific intent within a category.
type IntentType string

const (
	IntentTypeEducation IntentType = "education"
	IntentTypeGreeting  IntentType = "greeting"
	IntentTypeHelp      IntentType = "help"
	IntentTypeSummary   IntentType = "summary"
	IntentTypeReport    IntentType = "report"
	IntentTypeRetrieve  IntentType = "retrieve"
	IntentTypeRecord    IntentType = "record"
	IntentTypeEdit      IntentType = "edit"
	IntentTypeDelete    IntentType = "delete"
	IntentTypeTransfer  IntentType = "transfer"
	IntentTypeGoal      IntentType = "goal"
	IntentTypeUnknown   IntentType = "unknown"
)

// Classification is the result of intent detection on a user message.
type Classification struct {
	Category   IntentCategory
	Type       IntentType
	Confidence float64
}

// Actionable reports whether the classification should start or feed a
// slot-filling conversation.
func (c Classification) Actionable() bool {
	return c.Category == IntentInteractionData
}
