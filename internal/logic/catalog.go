package logic

import "github.com/synqtra/synqtra-api/internal/models"

// challengeAward is the flat point award for completing any challenge.
const challengeAward = 10

// games is the mini-game catalog. Gameplay runs client-side; the server
// only knows each game's completion award.
var games = []models.Game{
	{ID: "trivia", Name: "Web3 Trivia", Description: "Test your blockchain knowledge!", Icon: "🎯", Points: 10, Badge: "Brain Badge"},
	{ID: "memory", Name: "Memory Match", Description: "Match Web3 project logos", Icon: "🃏", Points: 15, Badge: "Memory Master"},
	{ID: "reaction", Name: "Quick Click", Description: "Test your reaction speed", Icon: "⚡", Points: 5, Badge: "Lightning Fast"},
	{ID: "rps", Name: "Rock Paper Scissors", Description: "Challenge the blockchain!", Icon: "✌️", Points: 8, Badge: "Game Master"},
	{ID: "flappy", Name: "Flappy Bird", Description: "Navigate through pipes with smooth animations!", Icon: "🐦", Points: 20, Badge: "Sky Master"},
	{ID: "snake", Name: "Snake", Description: "Grow your snake with increasing speed!", Icon: "🐍", Points: 25, Badge: "Snake Charmer"},
	{ID: "breakout", Name: "Breakout", Description: "Break bricks with paddle and ball physics!", Icon: "🏓", Points: 30, Badge: "Brick Breaker"},
}

// challenges is the event networking challenge catalog.
var challenges = []models.Challenge{
	{ID: "1", Title: "Scan Someone's QR", Description: "Find another participant and scan their QR code to make a connection.", Points: challengeAward},
	{ID: "2", Title: "Talk to a Speaker", Description: "Have a conversation with one of our featured speakers and get their digital signature.", Points: challengeAward},
	{ID: "3", Title: "Visit 3 Booths", Description: "Explore the event by visiting at least three different sponsor or project booths.", Points: challengeAward},
	{ID: "4", Title: "Join a Workshop", Description: "Participate in one of our hands-on workshop sessions.", Points: challengeAward},
}

// Games returns the mini-game catalog.
func Games() []models.Game {
	out := make([]models.Game, len(games))
	copy(out, games)
	return out
}

// GameByID looks up a catalog game.
func GameByID(id string) (models.Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return models.Game{}, false
}

// Challenges returns the challenge catalog.
func Challenges() []models.Challenge {
	out := make([]models.Challenge, len(challenges))
	copy(out, challenges)
	return out
}

// ChallengeByID looks up a catalog challenge.
func ChallengeByID(id string) (models.Challenge, bool) {
	for _, c := range challenges {
		if c.ID == id {
			return c, true
		}
	}
	return models.Challenge{}, false
}
