package systems

import (
	"fmt"
	"planboard/internal/domain"
	"planboard/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AttackResult - итог одной атаки с ответным ударом
type AttackResult struct {
	Damage       int
	Retaliation  int
	DefenderDied bool
	AttackerDied bool
	Message      string
}

// ResolveAttack применяет урон: удар атакующего, затем ответ защитника, если он выжил.
// Урон равен Strength (минимум 1).
func ResolveAttack(attacker, defender *domain.Unit) AttackResult {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     defender.ID,
		"target_name":   defender.Name,
	})

	if defender.IsDead() {
		combatLogger.Info("Attack ineffective: target is already dead.")
		return AttackResult{DefenderDied: true, Message: fmt.Sprintf("%s уже мёртв.", defender.Name)}
	}

	res := AttackResult{Damage: max(1, attacker.Strength)}
	hpBefore := defender.HP
	defender.HP -= res.Damage
	res.DefenderDied = defender.HP <= 0

	if !res.DefenderDied && defender.Strength > 0 {
		res.Retaliation = defender.Strength
		attacker.HP -= res.Retaliation
		res.AttackerDied = attacker.HP <= 0
	}

	if attacker.Attacks > 0 {
		attacker.Attacks--
	}

	combatLogger.WithFields(logrus.Fields{
		"damage":        res.Damage,
		"retaliation":   res.Retaliation,
		"hp_before":     hpBefore,
		"hp_after":      defender.HP,
		"target_died":   res.DefenderDied,
		"attacker_died": res.AttackerDied,
	}).Info("Attack resolved.")

	res.Message = fmt.Sprintf("%s наносит %d урона по %s.", attacker.Name, res.Damage, defender.Name)
	if res.DefenderDied {
		res.Message += fmt.Sprintf(" %s погибает.", defender.Name)
	} else if res.AttackerDied {
		res.Message += fmt.Sprintf(" %s гибнет от ответного удара.", attacker.Name)
	}
	return res
}
