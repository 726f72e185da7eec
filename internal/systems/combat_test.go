package systems

import (
	"planboard/internal/domain"
	"testing"
)

func TestResolveAttack(t *testing.T) {
	attacker := &domain.Unit{Name: "Hero", HP: 30, MaxHP: 30, Strength: 5, Attacks: 1, MaxAttacks: 1}
	target := &domain.Unit{Name: "Ork", HP: 20, MaxHP: 20, Strength: 3}

	res := ResolveAttack(attacker, target)

	if target.HP != 15 {
		t.Errorf("Expected target HP to be 15, got %d", target.HP)
	}
	if attacker.HP != 27 || res.Retaliation != 3 {
		t.Errorf("Expected retaliation 3, attacker HP 27; got %d, %d", res.Retaliation, attacker.HP)
	}
	if attacker.Attacks != 0 {
		t.Error("attack must consume an attack point")
	}
	if res.Message == "" {
		t.Error("Expected attack log message, got empty string")
	}

	// Kill shot
	attacker.Strength = 100
	res = ResolveAttack(attacker, target)

	if !res.DefenderDied || !target.IsDead() {
		t.Error("Expected target to be dead")
	}
	if res.Retaliation != 0 {
		t.Error("dead target must not retaliate")
	}
}
