package service

import (
	"github.com/okian/rankplot/internal/domain/model"
)

// GameBlurb introduces the game on the main page.
const GameBlurb = "TETR.IO is a free online multiplayer puzzle game inspired by Tetris, developed by osk. " +
	"It features a competitive, fast-paced gameplay experience with ranked matches, casual lobbies, " +
	"and single-player modes. Players can compete worldwide to climb the leaderboards, customize " +
	"their gameplay experience, and participate in tournaments. Its modern design, smooth mechanics, " +
	"and active community make it a popular choice for both casual and competitive Tetris enthusiasts."

var descriptions = map[model.Field]string{
	model.FieldTR:     "Tetra Rating (TR) is the main rating system used in TETR.IO, going from 0-25000. It is a measure of a player's skill level, and is used to determine their rank.",
	model.FieldAPM:    "Attack Per Minute (APM) is a measure of how many garbage lines a player sends to their opponent per minute.",
	model.FieldPPS:    "Pieces Per Second (PPS) is a measure of how fast a player plays, and how quickly a player can place pieces on the board.",
	model.FieldGlicko: "Glicko-2 is a rating system used in TETR.IO to measure a player's skill level, similar to Elo but with additional uncertainty.",
	model.FieldRD:     "Rating Deviation (RD) is a measure of the uncertainty of a player's rating in the Glicko system. RD increases with inactivity.",
	model.FieldVS:     "Versus Score (VS) indicates how well you performed in a round, based on pieces, lines sent, and garbage cleared.",
}

// Describe returns the explanatory text shown under a selector.
func Describe(f model.Field) (string, error) {
	d, ok := descriptions[f]
	if !ok {
		return "", &model.FieldError{Value: f.String()}
	}
	return d, nil
}

// DescribeName is Describe for a field name.
func DescribeName(name string) (string, error) {
	f, err := model.ParseField(name)
	if err != nil {
		return "", err
	}
	return Describe(f)
}
