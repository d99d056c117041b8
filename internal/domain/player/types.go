package player

type Attribute string

const (
	STR Attribute = "STR"
	DEX Attribute = "DEX"
	CON Attribute = "CON"
	INT Attribute = "INT"
	WIS Attribute = "WIS"
	CHA Attribute = "CHA"
)

var Attributes = []Attribute{STR, DEX, CON, INT, WIS, CHA}

func ParseAttribute(s string) (Attribute, bool) {
	for _, a := range Attributes {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Add applies delta and clamps the result to [0, Max].
func (p *Pool) Add(delta int) {
	p.Current += delta
	p.clamp()
}

func (p *Pool) clamp() {
	if p.Max < 0 {
		p.Max = 0
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
}

type Pools struct {
	HP      Pool `json:"hp"`
	Mana    Pool `json:"mana"`
	Stamina Pool `json:"stamina"`
}

type Slot string

const (
	SlotHead     Slot = "Head"
	SlotTorso    Slot = "Torso"
	SlotLegs     Slot = "Legs"
	SlotHands    Slot = "Hands"
	SlotOffHand  Slot = "OffHand"
	SlotMainHand Slot = "MainHand"
)

// ArmorSlots are the slots whose armor material affects dexterity.
var ArmorSlots = []Slot{SlotHead, SlotTorso, SlotLegs, SlotHands, SlotOffHand}

type ItemType string

const (
	ItemArmor  ItemType = "Armor"
	ItemWeapon ItemType = "Weapon"
)

type Item struct {
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Material string   `json:"material,omitempty"`
}

var materialDexPenalty = map[string]int{
	"Cloth":     0,
	"Leather":   0,
	"Hide":      -1,
	"Chainmail": -2,
	"Iron":      -2,
	"Steel":     -2,
	"Plate":     -3,
}

func MaterialDexPenalty(material string) int {
	return materialDexPenalty[material]
}
