package hexmap

import "planboard/internal/domain"

// DefaultCatalog - базовый набор типов юнитов для сценариев и тестов
func DefaultCatalog() domain.Catalog {
	return domain.Catalog{
		"lieutenant": {ID: "lieutenant", Name: "Lieutenant", Cost: 35, Movement: 6, Attacks: 1, HP: 48, Strength: 8, CanRecruit: true},
		"spearman":   {ID: "spearman", Name: "Spearman", Cost: 14, Movement: 5, Attacks: 1, HP: 36, Strength: 7},
		"bowman":     {ID: "bowman", Name: "Bowman", Cost: 14, Movement: 5, Attacks: 1, HP: 33, Strength: 6},
		"cavalryman": {ID: "cavalryman", Name: "Cavalryman", Cost: 17, Movement: 8, Attacks: 1, HP: 34, Strength: 6},
		"grunt":      {ID: "grunt", Name: "Grunt", Cost: 12, Movement: 5, Attacks: 1, HP: 38, Strength: 9},
		"orc_leader": {ID: "orc_leader", Name: "Orcish Warrior", Cost: 30, Movement: 5, Attacks: 1, HP: 58, Strength: 10, CanRecruit: true},
	}
}
