package castle

import (
	"fmt"
	"strings"
)

// Color of a room or throne. Rooms matching their owner's throne score double.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Gold
)

var colorNames = []string{"red", "green", "blue", "gold"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range colorNames {
		if n == name {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", name)
}

// Room is a castle room offered in the shop.
type Room struct {
	ID    int   `yaml:"id"`
	Color Color `yaml:"color"`
	Value int   `yaml:"value"`
}

type Kind int

const (
	PassAction Kind = iota
	BuyAction
)

// Action is a move in the castle game. Room is only meaningful for BuyAction.
type Action struct {
	Kind Kind
	Room int
}

func Pass() Action {
	return Action{Kind: PassAction}
}

func Buy(room int) Action {
	return Action{Kind: BuyAction, Room: room}
}

func (a Action) String() string {
	if a.Kind == BuyAction {
		return fmt.Sprintf("buy(%d)", a.Room)
	}
	return "pass"
}

// Setting holds the static rules of a game.
type Setting struct {
	Rounds   int     `yaml:"rounds"`
	ShopSize int     `yaml:"shopSize"`
	Thrones  []Color `yaml:"thrones"`
	Rooms    []Room  `yaml:"rooms"`
}

// DefaultSetting returns one throne per color and six rooms of each color valued 1 to 6.
func DefaultSetting() Setting {
	setting := Setting{
		Rounds:   6,
		ShopSize: 4,
		Thrones:  []Color{Red, Green, Blue, Gold},
	}
	id := 0
	for _, color := range setting.Thrones {
		for value := 1; value <= 6; value++ {
			setting.Rooms = append(setting.Rooms, Room{ID: id, Color: color, Value: value})
			id++
		}
	}
	return setting
}

func (s Setting) validate(players int) error {
	if players < 1 {
		return fmt.Errorf("need at least one player")
	}
	if s.Rounds < 1 {
		return fmt.Errorf("rounds must be positive, got %d", s.Rounds)
	}
	if s.ShopSize < 1 {
		return fmt.Errorf("shop size must be positive, got %d", s.ShopSize)
	}
	if len(s.Thrones) < players {
		return fmt.Errorf("%d thrones cannot seat %d players", len(s.Thrones), players)
	}
	seen := make(map[int]bool, len(s.Rooms))
	for _, room := range s.Rooms {
		if seen[room.ID] {
			return fmt.Errorf("duplicate room id %d", room.ID)
		}
		seen[room.ID] = true
	}
	return nil
}
