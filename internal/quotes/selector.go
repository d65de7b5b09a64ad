package quotes

import (
	"squotato-backend/internal/models"
)

// baseWeight is the flat weight every quote starts from, so fresh or
// unrated quotes still get shown often instead of being buried.
const baseWeight = 10

// SelectionWeight derives a quote's selection weight from signed engagement
// terms added to the base weight. The floor of 1 keeps every quote
// selectable no matter how unpopular it gets.
func SelectionWeight(terms ...int64) int64 {
	w := int64(baseWeight)
	for _, t := range terms {
		w += t
	}
	if w < 1 {
		return 1
	}
	return w
}

// weightOf applies the like/dislike weighting: likes count double, dislikes
// count against once.
func weightOf(q models.Quote) int64 {
	return SelectionWeight(2*q.Likes, -q.Dislikes)
}

// pickWeighted draws one quote with probability proportional to its weight.
// randInt must return a uniform value in [0, n). The first-quote fallback
// cannot trigger with a correct randInt, it only guards a misbehaving one.
func pickWeighted(quotes []models.Quote, randInt func(int64) int64) models.Quote {
	var total int64
	for _, q := range quotes {
		total += weightOf(q)
	}

	r := randInt(total)
	for _, q := range quotes {
		r -= weightOf(q)
		if r < 0 {
			return q
		}
	}
	return quotes[0]
}

// Placeholders is the built-in pool shown when the store is empty or
// unreachable, and the seed data inserted on first startup.
func Placeholders() []models.Quote {
	return []models.Quote{
		{
			Text:   "The only thing standing between you and your goal is the bullshit story you keep telling yourself.",
			Author: "Unknown Realist",
			Seed:   true,
		},
		{
			Text:   "They say 'follow your dreams.' So I went back to bed.",
			Author: "Sleeping Philosopher",
			Seed:   true,
		},
		{
			Text:   "The road to success is always under construction. Mostly because you haven't started working on it.",
			Author: "Construction Worker Philosopher",
			Seed:   true,
		},
	}
}
