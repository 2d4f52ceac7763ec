package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyago/models"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultVocabulary())
}

func TestExtract_IntentPriority(t *testing.T) {
	e := newTestExtractor()

	cases := map[string]models.Intent{
		"watch Mumbai prices for me":        models.IntentWatch,
		"track deals and book later":        models.IntentWatch,
		"book option 2":                     models.IntentBook,
		"go with Vistara":                   models.IntentBook,
		"show me a bundle for Goa":          models.IntentBundle,
		"show me flights again":             models.IntentShowFlights,
		"how about hotels with a pool":      models.IntentRefine,
		"pet friendly places please":        models.IntentRefine,
		"I want to travel to Goa":           models.IntentSearch,
	}
	for input, want := range cases {
		got := e.Extract(input)
		assert.Equal(t, want, got.Intent, "input %q", input)
	}
}

func TestExtract_OriginIsNeverDestination(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("Flights from Delhi to Mumbai")
	assert.Equal(t, "Delhi", got.Origin)
	assert.Equal(t, "Mumbai", got.Destination)

	// No other city in the utterance: the origin must not leak into the
	// destination slot.
	got = e.Extract("I'm flying from Delhi")
	assert.Equal(t, "Delhi", got.Origin)
	assert.Empty(t, got.Destination)
}

func TestExtract_Budget(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("Goa under $1500")
	require.NotNil(t, got.Budget)
	assert.Equal(t, 1500.0, *got.Budget)

	got = e.Extract("budget 900 for Mumbai")
	require.NotNil(t, got.Budget)
	assert.Equal(t, 900.0, *got.Budget)

	got = e.Extract("somewhere cheap")
	assert.Nil(t, got.Budget)
}

func TestExtract_DatePhrase(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("Fly me to Goa on December 25th")
	assert.Equal(t, "december 25th", got.Dates)

	// A city after "from" must not be mistaken for a date phrase.
	got = e.Extract("Flights from Paris")
	assert.Empty(t, got.Dates)

	got = e.Extract("Mumbai next week")
	assert.Equal(t, "next week", got.Dates)
}

func TestExtract_TravelersAndNights(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("2 adults to Goa for 3 nights")
	require.NotNil(t, got.Travelers)
	assert.Equal(t, 2, *got.Travelers)
	require.NotNil(t, got.Nights)
	assert.Equal(t, 3, *got.Nights)

	got = e.Extract("family of 4 to Mumbai")
	require.NotNil(t, got.Travelers)
	assert.Equal(t, 4, *got.Travelers)
}

func TestExtract_Amenities(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("hotels in Goa with wifi and a pool")
	assert.Equal(t, []string{"wifi", "pool"}, got.Amenities)
}

func TestExtract_Selection(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract("book option 2")
	require.NotNil(t, got.SelectionIndex)
	assert.Equal(t, 2, *got.SelectionIndex)
	assert.Empty(t, got.SelectionName, "stopword must not become a selection name")

	got = e.Extract("go with Vistara")
	assert.Nil(t, got.SelectionIndex)
	assert.Equal(t, "Vistara", got.SelectionName)

	// Selection fields only apply to book intents.
	got = e.Extract("show me option 2")
	assert.Nil(t, got.SelectionIndex)
}
