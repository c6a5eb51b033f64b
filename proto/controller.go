package proto

import "mindustry-netclient/wire"

// ControllerAttackInfoKind tags one entry of a tag-7/8 controller's nested
// attack-info list.
type ControllerAttackInfoKind uint8

const (
	AttackInfoBuild ControllerAttackInfoKind = 0
	AttackInfoUnit  ControllerAttackInfoKind = 1
	AttackInfoVec   ControllerAttackInfoKind = 2
)

// ControllerAttackInfo is one entry of the nested action list tags 7 and 8
// carry: a kind byte followed by that kind's payload.
type ControllerAttackInfo struct {
	Kind  ControllerAttackInfoKind
	Build uint32
	Unit  uint32
	VecX  float32
	VecY  float32
}

// Controller is the discriminated unit-controller variant. Tag is always
// populated; the remaining fields are only meaningful for the tags that set
// them, mirroring the source's sparse optional-field layout exactly.
type Controller struct {
	Tag uint8

	// tag 0
	FormationLeaderID uint32
	// tag 1
	Raw4 []byte
	// tag 3
	LogicControllerID uint32

	// tags 4, 6, 7, 8
	HasAttack  bool
	HasPos     bool
	X, Y       float32
	EntityType uint8
	Attack     uint32
	// tags 6, 7, 8
	ID uint8
	// tags 7, 8
	AttackInfo []ControllerAttackInfo
	// tag 8
	HasStance bool
	Stance    uint8
}

// ReadController dispatches on the leading tag byte and reproduces the
// source's byte schedule exactly, including the four tags (4, 6, 7, 8) that
// share the has_attack/has_pos optional-field preamble.
func ReadController(r *wire.Reader) Controller {
	tag := r.Byte()
	c := Controller{Tag: tag}

	switch tag {
	case 0:
		c.FormationLeaderID = r.Uint32()
	case 1:
		c.Raw4 = r.Bytes(4)
	case 3:
		c.LogicControllerID = r.Uint32()
	case 4, 6, 7, 8:
		c.HasAttack = r.Bool()
		c.HasPos = r.Bool()
		if c.HasPos {
			c.X = r.Float32()
			c.Y = r.Float32()
		}
		if c.HasAttack {
			c.EntityType = r.Byte()
			c.Attack = r.Uint32()
		}
		if tag == 6 || tag == 7 || tag == 8 {
			c.ID = r.Byte()
		}
		if tag == 7 || tag == 8 {
			length := r.Byte()
			c.AttackInfo = make([]ControllerAttackInfo, 0, length)
			for i := uint8(0); i < length; i++ {
				kind := ControllerAttackInfoKind(r.Byte())
				info := ControllerAttackInfo{Kind: kind}
				switch kind {
				case AttackInfoBuild:
					info.Build = r.Uint32()
				case AttackInfoUnit:
					info.Unit = r.Uint32()
				case AttackInfoVec:
					info.VecX = r.Float32()
					info.VecY = r.Float32()
				}
				c.AttackInfo = append(c.AttackInfo, info)
			}
		}
		if tag == 8 {
			b := r.Byte()
			if b != 0xFF {
				c.HasStance = true
				c.Stance = b
			}
		}
	default:
		// unrecognised controller tag: no further bytes defined, nothing to consume.
	}
	return c
}
