// Package scenario загружает стартовое состояние партии из YAML.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"planboard/internal/domain"
	"planboard/pkg/hexmap"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScenario []byte

// File - формат файла сценария
type File struct {
	Name        string            `yaml:"name"`
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	Turn        int               `yaml:"turn"`
	CurrentSide int               `yaml:"current_side"`
	UnitTypes   []domain.UnitType `yaml:"unit_types"`
	Terrain     []TerrainPatch    `yaml:"terrain"`
	Keeps       []domain.Hex      `yaml:"keeps"`
	Castles     []domain.Hex      `yaml:"castles"`
	Villages    []domain.Hex      `yaml:"villages"`
	Teams       []TeamSpec        `yaml:"teams"`
}

// TerrainPatch - одна местность для набора клеток
type TerrainPatch struct {
	Type  string       `yaml:"type"`
	Hexes []domain.Hex `yaml:"hexes"`
}

// TeamSpec - сторона и её юниты
type TeamSpec struct {
	Name       string     `yaml:"name"`
	Alliance   int        `yaml:"alliance"`
	Gold       int        `yaml:"gold"`
	RecallCost int        `yaml:"recall_cost"`
	Recruits   []string   `yaml:"recruits"`
	Leader     *UnitSpec  `yaml:"leader"`
	Units      []UnitSpec `yaml:"units"`
	Recall     []string   `yaml:"recall"`
}

// UnitSpec - юнит на карте
type UnitSpec struct {
	Type string     `yaml:"type"`
	Pos  domain.Hex `yaml:"pos"`
	HP   int        `yaml:"hp"` // 0 - полное здоровье
}

// Load читает сценарий из файла
func Load(path string) (*domain.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Default возвращает встроенную демо-партию
func Default() (*domain.State, error) {
	return Parse(defaultScenario)
}

// Parse разбирает YAML и собирает состояние
func Parse(data []byte) (*domain.State, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return f.Build()
}

// Build собирает состояние через hexmap.Builder
func (f *File) Build() (*domain.State, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("scenario %q: invalid size %dx%d", f.Name, f.Width, f.Height)
	}
	if len(f.Teams) == 0 {
		return nil, errors.New("scenario has no teams")
	}

	b := hexmap.New(f.Width, f.Height)
	for _, ut := range f.UnitTypes {
		if ut.ID == "" {
			return nil, errors.New("unit type without id")
		}
		b.WithUnitType(ut)
	}

	for _, patch := range f.Terrain {
		t := domain.ParseTerrain(patch.Type)
		if t == domain.TerrainUnknown {
			return nil, fmt.Errorf("unknown terrain %q", patch.Type)
		}
		b.Terrain(t, patch.Hexes...)
	}
	b.Castle(f.Castles...).Keep(f.Keeps...).Village(f.Villages...)

	for side, ts := range f.Teams {
		if strings.TrimSpace(ts.Name) == "" {
			return nil, fmt.Errorf("team %d has no name", side)
		}
		b.Team(ts.Name, ts.Alliance, ts.Gold, ts.Recruits...)
		if ts.RecallCost > 0 {
			b.RecallCost(side, ts.RecallCost)
		}
		if ts.Leader != nil {
			b.UnitWith(side, ts.Leader.Type, ts.Leader.Pos, leaderTweak(ts.Leader.HP))
		}
		for _, us := range ts.Units {
			b.UnitWith(side, us.Type, us.Pos, hpTweak(us.HP))
		}
		for _, typeID := range ts.Recall {
			b.Recall(side, typeID)
		}
	}

	if f.CurrentSide < 0 || f.CurrentSide >= len(f.Teams) {
		return nil, fmt.Errorf("current side %d: %w", f.CurrentSide, domain.ErrUnknownSide)
	}
	b.CurrentSide(f.CurrentSide)
	if f.Turn > 0 {
		b.Turn(f.Turn)
	}
	return b.Build()
}

func hpTweak(hp int) func(u *domain.Unit) {
	return func(u *domain.Unit) {
		if hp > 0 && hp < u.MaxHP {
			u.HP = hp
		}
	}
}

func leaderTweak(hp int) func(u *domain.Unit) {
	setHP := hpTweak(hp)
	return func(u *domain.Unit) {
		u.CanRecruit = true
		setHP(u)
	}
}
