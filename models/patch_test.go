package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGamePatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		keys       int
		recognized []string
		wantErr    bool
	}{
		{name: "empty body", body: "", keys: 0},
		{name: "whitespace", body: "  \n", keys: 0},
		{name: "null", body: "null", keys: 0},
		{name: "empty object", body: "{}", keys: 0},
		{name: "one field", body: `{"rating":"T"}`, keys: 1, recognized: []string{"rating"}},
		{name: "unknown only", body: `{"genre":"RPG","release":"1995"}`, keys: 2},
		{name: "mixed", body: `{"title":"a","genre":"RPG","release_year":"2001"}`, keys: 3, recognized: []string{"title", "release_year"}},
		{name: "null value", body: `{"picture":null}`, keys: 1, recognized: []string{"picture"}},
		{name: "upper case key", body: `{"TITLE":"x"}`, keys: 1},
		{name: "mixed case keys", body: `{"Title":"x","Release_Year":"2000","rating":"T"}`, keys: 3, recognized: []string{"rating"}},
		{name: "wrong type", body: `{"title":1}`, wantErr: true},
		{name: "array", body: `["title"]`, wantErr: true},
		{name: "malformed", body: `{"title"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseGamePatch([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.keys, p.Keys)
			assert.Equal(t, tt.keys == 0, p.Empty())
			assert.Equal(t, tt.recognized, p.Recognized())
		})
	}
}

func TestOptionalDistinguishesNullFromAbsent(t *testing.T) {
	p, err := ParseGamePatch([]byte(`{"title":null,"rating":"T"}`))
	require.NoError(t, err)

	assert.True(t, p.Title.Set)
	assert.True(t, p.Title.Null)
	assert.True(t, p.Rating.Set)
	assert.False(t, p.Rating.Null)
	assert.Equal(t, "T", p.Rating.Value)
	assert.False(t, p.Developer.Set)

	name, ok := p.NullField()
	assert.True(t, ok)
	assert.Equal(t, "title", name)
}

func TestApplyToOnlyTouchesPresentFields(t *testing.T) {
	g := Game{
		ID:          4,
		Title:       "Chrono Trigger",
		Developer:   "Square",
		ReleaseYear: "1995",
		Platform:    "SNES",
		Rating:      "E",
		Picture:     "http://x/1.png",
	}
	patch := GamePatch{
		ReleaseYear: Some("1996"),
		Platform:    Some("PS1"),
		Picture:     Optional[string]{Set: true, Null: true},
	}

	patch.ApplyTo(&g)

	assert.Equal(t, Game{
		ID:          4,
		Title:       "Chrono Trigger",
		Developer:   "Square",
		ReleaseYear: "1996",
		Platform:    "PS1",
		Rating:      "E",
		Picture:     "http://x/1.png",
	}, g)
}

func TestGameJSONUsesReleaseName(t *testing.T) {
	data, err := json.Marshal(Game{ID: 1, ReleaseYear: "1995"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"release":"1995"`)
	assert.NotContains(t, string(data), "release_year")
}

func TestGameInputBuildsGame(t *testing.T) {
	s := func(v string) *string { return &v }
	in := GameInput{
		Title: s("t"), Developer: s("d"), ReleaseYear: s("1999"),
		Platform: s("p"), Rating: s("E"), Picture: s("x"),
	}
	assert.Equal(t, Game{Title: "t", Developer: "d", ReleaseYear: "1999", Platform: "p", Rating: "E", Picture: "x"}, in.Game())
}

func TestParseGameInputMatchesExactKeys(t *testing.T) {
	obj, err := ParseObject([]byte(`{"title":"t","Developer":"d","release_year":null,"platform":"p","rating":"E","picture":"x","extra":1}`))
	require.NoError(t, err)

	in, err := ParseGameInput(obj)
	require.NoError(t, err)
	require.NotNil(t, in.Title)
	assert.Equal(t, "t", *in.Title)
	assert.Nil(t, in.Developer)
	assert.Nil(t, in.ReleaseYear)
	require.NotNil(t, in.Rating)
	assert.Equal(t, "E", *in.Rating)
}

func TestParseGameInputRejectsWrongTypes(t *testing.T) {
	obj, err := ParseObject([]byte(`{"title":5}`))
	require.NoError(t, err)

	_, err = ParseGameInput(obj)
	assert.Error(t, err)
}
