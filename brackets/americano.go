package brackets

import "fmt"

// bye marks the placeholder slot added when the player count is odd.
const bye = -1

type AmericanoGenerator struct{}

func NewAmericanoGenerator() ScheduleGenerator {
	return &AmericanoGenerator{}
}

func (g *AmericanoGenerator) GetName() string {
	return "Americano"
}

func (g *AmericanoGenerator) GenerateSchedule(players []int) ([]Round, error) {
	return GenerateAmericano(players)
}

// GenerateAmericano builds an americano schedule with the circle method.
//
// Position 0 stays fixed while the rest rotate, so n players (rounded up to
// even with a bye) give n-1 rounds. Each round pairs position i with n-1-i;
// pairs touching the bye are dropped and consecutive surviving pairs face
// each other as teams. A leftover pair without an opponent sits out.
// The result depends only on the order of players.
func GenerateAmericano(players []int) ([]Round, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientPlayers, len(players))
	}

	// Слоты хранят индексы игроков, чтобы bye не пересекался с реальными ID.
	seen := make(map[int]struct{}, len(players))
	slots := make([]int, 0, len(players)+1)
	for i, id := range players {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
		slots = append(slots, i)
	}
	if len(slots)%2 != 0 {
		slots = append(slots, bye)
	}

	n := len(slots)
	rounds := make([]Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairs := make([]Team, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := slots[i], slots[n-1-i]
			if a == bye || b == bye {
				continue
			}
			pairs = append(pairs, Team{players[a], players[b]})
		}

		round := make(Round, 0, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			round = append(round, ScheduledMatch{TeamA: pairs[i], TeamB: pairs[i+1]})
		}
		rounds = append(rounds, round)

		slots = rotate(slots)
	}

	return rounds, nil
}

// rotate returns a new slice with slots[0] fixed and the last slot moved to position 1.
func rotate(slots []int) []int {
	n := len(slots)
	next := make([]int, 0, n)
	next = append(next, slots[0], slots[n-1])
	next = append(next, slots[1:n-1]...)
	return next
}
