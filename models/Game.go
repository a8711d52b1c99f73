package models

// Game is the only stored record. The JSON name of ReleaseYear is "release"
// on output; clients send it as "release_year".
type Game struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:80;not null" json:"title" validate:"required,max=80"`
	Developer   string `gorm:"size:60;not null" json:"developer" validate:"required,max=60"`
	ReleaseYear string `gorm:"column:release_year;size:4;not null" json:"release" form:"release_year" validate:"len=4"`
	Platform    string `gorm:"size:120;not null" json:"platform" validate:"required,max=120"`
	Rating      string `gorm:"size:1;not null" json:"rating" validate:"len=1"`
	Picture     string `gorm:"size:2048;not null" json:"picture" validate:"max=2048"`
}

// TableName keeps the table name used by the existing deployments.
func (Game) TableName() string { return "game" }

func (g *Game) SetTitle(v string)       { g.Title = v }
func (g *Game) SetDeveloper(v string)   { g.Developer = v }
func (g *Game) SetReleaseYear(v string) { g.ReleaseYear = v }
func (g *Game) SetPlatform(v string)    { g.Platform = v }
func (g *Game) SetRating(v string)      { g.Rating = v }
func (g *Game) SetPicture(v string)     { g.Picture = v }

// GameInput - body of the create endpoint. A nil field was not sent.
type GameInput struct {
	Title       *string `json:"title" validate:"required"`
	Developer   *string `json:"developer" validate:"required"`
	ReleaseYear *string `json:"release_year" validate:"required"`
	Platform    *string `json:"platform" validate:"required"`
	Rating      *string `json:"rating" validate:"required"`
	Picture     *string `json:"picture" validate:"required"`
}

// Game builds the record described by the input. Call it only after the
// input has passed validation.
func (in GameInput) Game() Game {
	return Game{
		Title:       *in.Title,
		Developer:   *in.Developer,
		ReleaseYear: *in.ReleaseYear,
		Platform:    *in.Platform,
		Rating:      *in.Rating,
		Picture:     *in.Picture,
	}
}
