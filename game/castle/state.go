package castle

import (
	"fmt"
	"slices"

	"disastle/game"

	"golang.org/x/exp/rand"
)

// State is one snapshot of a castle game. It is never mutated after
// construction; Play and Determinize return new snapshots.
type State struct {
	setting *Setting
	players []string
	turn    int
	round   int
	deck    []Room   // Hidden draw order
	shop    []Room   // Rooms on offer this round
	castles [][]Room // Rooms bought, indexed by player
	thrones []Color  // Secret throne per player
}

var _ game.Hidden[Action] = (*State)(nil)

// New deals thrones and the first shop for players.
func New(players []string, setting Setting, rng *rand.Rand) (*State, error) {
	if err := setting.validate(len(players)); err != nil {
		return nil, fmt.Errorf("invalid setting: %w", err)
	}

	thrones := slices.Clone(setting.Thrones)
	rng.Shuffle(len(thrones), func(i, j int) {
		thrones[i], thrones[j] = thrones[j], thrones[i]
	})

	s := &State{
		setting: &setting,
		players: slices.Clone(players),
		round:   1,
		deck:    slices.Clone(setting.Rooms),
		castles: make([][]Room, len(players)),
		thrones: thrones[:len(players)],
	}
	s.dealShop(rng)
	return s, nil
}

func (s *State) copy() *State {
	castles := make([][]Room, len(s.castles))
	copy(castles, s.castles) // Inner slices are copied on write
	return &State{
		setting: s.setting,
		players: s.players,
		turn:    s.turn,
		round:   s.round,
		deck:    slices.Clone(s.deck),
		shop:    slices.Clone(s.shop),
		castles: castles,
		thrones: slices.Clone(s.thrones),
	}
}

// dealShop returns unsold rooms to the deck, reshuffles it and deals a new shop.
func (s *State) dealShop(rng *rand.Rand) {
	s.deck = append(s.deck, s.shop...)
	s.shop = nil
	rng.Shuffle(len(s.deck), func(i, j int) {
		s.deck[i], s.deck[j] = s.deck[j], s.deck[i]
	})
	n := min(s.setting.ShopSize, len(s.deck))
	s.shop = append(s.shop, s.deck[:n]...)
	s.deck = s.deck[n:]
}

func (s *State) Round() int {
	return s.round
}

func (s *State) TurnOrder() []string {
	return s.players
}

func (s *State) TurnIndex() int {
	return s.turn
}

func (s *State) OwnsTurn(player string) bool {
	return !s.IsTerminal() && s.players[s.turn] == player
}

func (s *State) IsTerminal() bool {
	return s.round > s.setting.Rounds || (len(s.shop) == 0 && len(s.deck) == 0)
}

func (s *State) LegalActions(player string) []Action {
	if !s.OwnsTurn(player) {
		return nil
	}
	actions := make([]Action, 0, len(s.shop)+1)
	actions = append(actions, Pass())
	for _, room := range s.shop {
		actions = append(actions, Buy(room.ID))
	}
	return actions
}

func (s *State) Play(player string, action Action, rng *rand.Rand) game.State[Action] {
	if !slices.Contains(s.LegalActions(player), action) {
		panic(fmt.Sprintf("illegal action %v for player %s in round %d", action, player, s.round))
	}

	next := s.copy()
	if action.Kind == BuyAction {
		i := slices.IndexFunc(next.shop, func(r Room) bool { return r.ID == action.Room })
		room := next.shop[i]
		next.shop = slices.Delete(next.shop, i, i+1)
		next.castles[next.turn] = append(slices.Clone(next.castles[next.turn]), room)
	}

	next.turn++
	if next.turn == len(next.players) {
		next.turn = 0
		next.round++
		if next.round <= next.setting.Rounds {
			next.dealShop(rng)
		}
	}
	return next
}

// Score sums the values of player's rooms; rooms matching the throne count twice.
func (s *State) Score(player string) int {
	i := slices.Index(s.players, player)
	if i < 0 {
		return 0
	}
	score := 0
	for _, room := range s.castles[i] {
		if room.Color == s.thrones[i] {
			score += 2 * room.Value
		} else {
			score += room.Value
		}
	}
	return score
}

// IsWinner reports whether player has the highest score of a finished game.
// Tied players all win.
func (s *State) IsWinner(player string) bool {
	if !s.IsTerminal() || !slices.Contains(s.players, player) {
		return false
	}
	best := 0
	for _, p := range s.players {
		best = max(best, s.Score(p))
	}
	return s.Score(player) == best
}

// Winners lists every winning player of a finished game.
func (s *State) Winners() []string {
	var winners []string
	for _, p := range s.players {
		if s.IsWinner(p) {
			winners = append(winners, p)
		}
	}
	return winners
}

func (s *State) Shop() []Room {
	return slices.Clone(s.shop)
}

func (s *State) Castle(player string) []Room {
	i := slices.Index(s.players, player)
	if i < 0 {
		return nil
	}
	return slices.Clone(s.castles[i])
}

func (s *State) Throne(player string) (Color, bool) {
	i := slices.Index(s.players, player)
	if i < 0 {
		return 0, false
	}
	return s.thrones[i], true
}

// Determinize keeps what observer knows (own throne, all castles, the shop)
// and re-deals the rest: other players' thrones from the unseen pool and the deck order.
func (s *State) Determinize(observer string, rng *rand.Rand) (game.State[Action], error) {
	me := slices.Index(s.players, observer)
	if me < 0 {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownPlayer, observer)
	}

	pool := slices.Clone(s.setting.Thrones)
	i := slices.Index(pool, s.thrones[me])
	if i < 0 {
		return nil, fmt.Errorf("%w: throne %v of %s is not in the pool", game.ErrInconsistentKnowledge, s.thrones[me], observer)
	}
	pool = slices.Delete(pool, i, i+1)
	if len(pool) < len(s.players)-1 {
		return nil, fmt.Errorf("%w: %d unseen thrones for %d opponents", game.ErrInconsistentKnowledge, len(pool), len(s.players)-1)
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	world := s.copy()
	for p := range world.players {
		if p == me {
			continue
		}
		world.thrones[p], pool = pool[0], pool[1:]
	}
	rng.Shuffle(len(world.deck), func(i, j int) {
		world.deck[i], world.deck[j] = world.deck[j], world.deck[i]
	})
	return world, nil
}

func (s *State) String() string {
	return fmt.Sprintf("castle{round=%d turn=%s shop=%v deck=%d}", s.round, s.players[s.turn], s.shop, len(s.deck))
}
