package domain

// UnitType - запись каталога типов юнитов (используется при найме)
type UnitType struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Cost        int    `json:"cost" yaml:"cost"`
	Movement    int    `json:"movement" yaml:"movement"`
	Attacks     int    `json:"attacks" yaml:"attacks"`
	HP          int    `json:"hp" yaml:"hp"`
	Strength    int    `json:"strength" yaml:"strength"`
	Vision      int    `json:"vision" yaml:"vision"`
	CanRecruit  bool   `json:"canRecruit,omitempty" yaml:"can_recruit"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Catalog - все известные типы юнитов по ID
type Catalog map[string]UnitType

// Unit - фигура на карте
type Unit struct {
	ID   UnitID `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	Side int    `json:"side"` // Индекс команды (0..n-1)

	Pos Hex `json:"pos"`

	Movement    int `json:"movement"`
	MaxMovement int `json:"maxMovement"`
	Attacks     int `json:"attacks"`
	MaxAttacks  int `json:"maxAttacks"`

	HP       int `json:"hp"`
	MaxHP    int `json:"maxHp"`
	Strength int `json:"strength"`
	Vision   int `json:"vision"`

	CanRecruit bool `json:"canRecruit,omitempty"` // Лидер
	Cost       int  `json:"cost"`
}

// NewUnitFromType создает юнита из записи каталога. Позиция не задана.
func NewUnitFromType(id UnitID, side int, t UnitType) *Unit {
	return &Unit{
		ID:          id,
		Type:        t.ID,
		Name:        t.Name,
		Side:        side,
		Pos:         NullHex,
		Movement:    t.Movement,
		MaxMovement: t.Movement,
		Attacks:     t.Attacks,
		MaxAttacks:  t.Attacks,
		HP:          t.HP,
		MaxHP:       t.HP,
		Strength:    t.Strength,
		Vision:      t.Vision,
		CanRecruit:  t.CanRecruit,
		Cost:        t.Cost,
	}
}

// Clone возвращает независимую копию юнита
func (u *Unit) Clone() *Unit {
	c := *u
	return &c
}

// IsDead - юнит без HP
func (u *Unit) IsDead() bool {
	return u.MaxHP > 0 && u.HP <= 0
}
