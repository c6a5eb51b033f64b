package proto

import "mindustry-netclient/wire"

// Plan is a queued construction order: a place (plan_type != 1), a break
// (plan_type == 1, no further fields), or a deconstruct, keyed by the
// source's literal plan_type byte (its own TODO: "this might be a boolean
// for deconstruction" — kept as a raw byte rather than guessed at).
type Plan struct {
	PlanType  uint8
	Position  Tile
	Block     int16
	Rotation  uint8
	HasConfig bool
	Config    wire.Object
}

// ReadPlan reads a single Plan. plan_type == 1 carries no further fields.
func ReadPlan(r *wire.Reader) (Plan, error) {
	planType := r.Byte()
	pos := ReadTile(r)
	if planType == 1 {
		return Plan{PlanType: planType, Position: pos}, nil
	}

	block := r.Int16()
	rotation := r.Byte()
	hasConfig := r.Bool()
	config, err := wire.ReadObject(r)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		PlanType:  planType,
		Position:  pos,
		Block:     block,
		Rotation:  rotation,
		HasConfig: hasConfig,
		Config:    config,
	}, nil
}

// WritePlan mirrors ReadPlan: only plan_type == 0 (place) carries the
// extended fields, matching write_plan in the source (which only special-
// cases 0, not "!= 1" as the reader does).
func WritePlan(w *wire.Writer, p Plan) error {
	w.WriteByte8(p.PlanType)
	WriteTile(w, p.Position)
	if p.PlanType != 0 {
		return nil
	}
	w.WriteInt16(p.Block)
	w.WriteByte8(p.Rotation)
	w.WriteBool(p.HasConfig)
	return wire.WriteObject(w, p.Config)
}

// ReadPlans reads a plan list with an i16 count, the width of BuildTurret's
// embedded plan list. Package block does not decode BuildTurret, so nothing
// in this module calls it; unit plan queues use ReadPlansQueue's u32 count,
// and the two widths are not interchangeable.
func ReadPlans(r *wire.Reader) ([]Plan, error) {
	count := r.Int16()
	return readPlanN(r, int(count))
}

// ReadPlansQueue reads a plan list with a u32 count. Used for a unit's
// embedded plan queue, and is the width ClientSnapshot's plan list writes.
func ReadPlansQueue(r *wire.Reader) ([]Plan, error) {
	count := r.Uint32()
	return readPlanN(r, int(count))
}

func readPlanN(r *wire.Reader, count int) ([]Plan, error) {
	if count < 0 {
		count = 0
	}
	plans := make([]Plan, 0, count)
	for i := 0; i < count; i++ {
		p, err := ReadPlan(r)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// WritePlans writes a plan list with a u32 count, matching write_plans (the
// only writer the source defines for plan lists, used by ClientSnapshot).
func WritePlans(w *wire.Writer, plans []Plan) error {
	w.WriteUint32(uint32(len(plans)))
	for _, p := range plans {
		if err := WritePlan(w, p); err != nil {
			return err
		}
	}
	return nil
}
