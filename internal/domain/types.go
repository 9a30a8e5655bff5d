package domain

import "sync"

// Badge is an achievement tier attached to a favourite-artist link. The set
// is closed; anything outside it is rejected before it reaches storage.
type Badge string

const (
	BadgeBronze    Badge = "Bronze"
	BadgeSilver    Badge = "Silver"
	BadgeGold      Badge = "Gold"
	BadgePlatinum  Badge = "Platinum"
	BadgeDiamond   Badge = "Diamond"
	BadgeLegendary Badge = "Legendary"
	BadgeVIP       Badge = "VIP"
	BadgeShiny     Badge = "Shiny"
)

// badges in ascending tier order. 'Shiny' is the highest tier; it has
// nothing to do with shiny track versions.
var badges = []Badge{
	BadgeBronze,
	BadgeSilver,
	BadgeGold,
	BadgePlatinum,
	BadgeDiamond,
	BadgeLegendary,
	BadgeVIP,
	BadgeShiny,
}

// BadgeEmojis maps each badge to its display emoji.
var BadgeEmojis = map[Badge]string{
	BadgeBronze:    "🟫",
	BadgeSilver:    "⬜",
	BadgeGold:      "🟨",
	BadgePlatinum:  "🟪",
	BadgeDiamond:   "🟦",
	BadgeLegendary: "🟥",
	BadgeVIP:       "🟩",
	BadgeShiny:     "✨",
}

// Badges returns the closed badge set in tier order.
func Badges() []Badge {
	out := make([]Badge, len(badges))
	copy(out, badges)
	return out
}

func (b Badge) Valid() bool {
	for _, known := range badges {
		if b == known {
			return true
		}
	}
	return false
}

// SortMode selects the ordering of a user's Epic list.
type SortMode string

const (
	// SortModeAdded orders by original add time. Default for new users.
	SortModeAdded SortMode = "added"
	// SortModePosition orders by manual position, nulls last.
	SortModePosition SortMode = "position"
	// SortModeName orders alphabetically by artist, then title.
	SortModeName SortMode = "name"
)

var (
	sortModeMu sync.RWMutex
	sortModes  = map[SortMode]struct{}{
		SortModeAdded:    {},
		SortModePosition: {},
		SortModeName:     {},
	}
)

// RegisterSortMode widens the accepted sort-mode vocabulary. The command
// layer calls this at startup for any modes it implements beyond the
// built-ins; the store only validates membership.
func RegisterSortMode(m SortMode) {
	sortModeMu.Lock()
	defer sortModeMu.Unlock()
	sortModes[m] = struct{}{}
}

func (m SortMode) Valid() bool {
	sortModeMu.RLock()
	defer sortModeMu.RUnlock()
	_, ok := sortModes[m]
	return ok
}
