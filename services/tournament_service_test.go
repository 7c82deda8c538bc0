package services

import "testing"

func TestRoundRobinRoundsEven(t *testing.T) {
	rounds := roundRobinRounds(4)

	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds for 4 teams, got %d", len(rounds))
	}
	for r, pairs := range rounds {
		if len(pairs) != 2 {
			t.Errorf("round %d: expected 2 pairings, got %d", r+1, len(pairs))
		}
	}

	// Every pair of teams meets exactly once
	met := map[[2]int]int{}
	for _, pairs := range rounds {
		for _, p := range pairs {
			key := [2]int{p.home, p.away}
			if p.away < p.home {
				key = [2]int{p.away, p.home}
			}
			met[key]++
		}
	}
	if len(met) != 6 {
		t.Fatalf("expected 6 distinct pairings, got %d", len(met))
	}
	for key, n := range met {
		if n != 1 {
			t.Errorf("teams %v meet %d times, want 1", key, n)
		}
	}
}

func TestRoundRobinRoundsOddHasByes(t *testing.T) {
	rounds := roundRobinRounds(5)

	if len(rounds) != 5 {
		t.Fatalf("expected 5 rounds for 5 teams, got %d", len(rounds))
	}

	appearances := map[int]int{}
	for r, pairs := range rounds {
		// One team sits out each round
		if len(pairs) != 2 {
			t.Errorf("round %d: expected 2 pairings, got %d", r+1, len(pairs))
		}
		seen := map[int]bool{}
		for _, p := range pairs {
			if p.home == p.away {
				t.Errorf("round %d: team %d paired with itself", r+1, p.home)
			}
			if seen[p.home] || seen[p.away] {
				t.Errorf("round %d: a team plays twice", r+1)
			}
			seen[p.home], seen[p.away] = true, true
			appearances[p.home]++
			appearances[p.away]++
		}
	}

	// 5 teams, each plays the other 4 once
	for team := 0; team < 5; team++ {
		if appearances[team] != 4 {
			t.Errorf("team %d plays %d matches, want 4", team, appearances[team])
		}
	}
}

func TestRoundRobinRoundsNoTeamAlwaysHome(t *testing.T) {
	rounds := roundRobinRounds(6)

	home := map[int]int{}
	away := map[int]int{}
	for _, pairs := range rounds {
		for _, p := range pairs {
			home[p.home]++
			away[p.away]++
		}
	}
	for team := 0; team < 6; team++ {
		if home[team] == 0 {
			t.Errorf("team %d never hosts", team)
		}
		if away[team] == 0 {
			t.Errorf("team %d never travels", team)
		}
	}
}

func TestRoundRobinRoundsDegenerate(t *testing.T) {
	if rounds := roundRobinRounds(0); rounds != nil {
		t.Errorf("expected nil for 0 teams, got %v", rounds)
	}
	if rounds := roundRobinRounds(1); rounds != nil {
		t.Errorf("expected nil for 1 team, got %v", rounds)
	}
	rounds := roundRobinRounds(2)
	if len(rounds) != 1 || len(rounds[0]) != 1 {
		t.Fatalf("expected a single pairing for 2 teams, got %v", rounds)
	}
}
