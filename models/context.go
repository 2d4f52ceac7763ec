package models

// Intent is the closed set of conversational intents the extractor emits.
type Intent string

const (
	IntentSearch      Intent = "search"
	IntentRefine      Intent = "refine"
	IntentBundle      Intent = "bundle"
	IntentShowFlights Intent = "show_flights"
	IntentWatch       Intent = "watch"
	IntentBook        Intent = "book"
)

// AwaitingSlot marks which slot, if any, the concierge asked for last turn.
type AwaitingSlot string

const (
	SlotNone        AwaitingSlot = ""
	SlotDestination AwaitingSlot = "destination"
	SlotDates       AwaitingSlot = "dates"
	SlotCheckIn     AwaitingSlot = "check_in"
	SlotCheckOut    AwaitingSlot = "check_out"
	SlotOrigin      AwaitingSlot = "origin"
	SlotTravelers   AwaitingSlot = "travelers"
)

// ExtractedSlots is the transient output of one extraction call. Optional
// numeric fields are pointers so "absent" and "zero" stay distinct; optional
// strings use the empty string as absent.
type ExtractedSlots struct {
	Intent         Intent
	Destination    string
	Origin         string
	Budget         *float64
	Dates          string
	Travelers      *int
	Nights         *int
	Amenities      []string
	SelectionIndex *int    // "book option 2"
	SelectionName  string  // "go with Vistara"
}

// ConversationContext is the mutable per-session record the dialogue
// manager fills turn by turn. One live session owns exactly one instance;
// it is created on connect and discarded on disconnect.
type ConversationContext struct {
	Destination string   `json:"destination,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Dates       string   `json:"dates,omitempty"`     // flight flow
	CheckIn     string   `json:"check_in,omitempty"`  // hotel flow
	CheckOut    string   `json:"check_out,omitempty"` // hotel flow
	Travelers   *int     `json:"travelers,omitempty"`
	Nights      *int     `json:"nights,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`

	// AwaitingSlot is non-empty only while the corresponding field above is
	// unset; it is cleared as soon as the answer is merged in.
	AwaitingSlot AwaitingSlot `json:"awaiting_slot,omitempty"`

	// LastRecommendations is the ordered list of previously shown results,
	// used for index-based selection on a book intent.
	LastRecommendations []Recommendation `json:"last_recommendations,omitempty"`
}
