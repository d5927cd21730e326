package world

import (
	"encoding/json"
	"fmt"

	"proxiverse/internal/protocol"
)

func actionResult(tick uint64, action string, success bool, code, msg string) protocol.ActionConfirmedMsg {
	return protocol.ActionConfirmedMsg{
		Type:    protocol.TypeActionConfirmed,
		Tick:    tick,
		Action:  action,
		Success: success,
		Code:    code,
		Message: msg,
	}
}

// resolveAction applies one queued intent against the world. Failures are
// reported back to the agent, never escalated; the only error return is the
// grid/store consistency check, which is fatal.
func (w *World) resolveAction(act PendingAction, nowTick uint64) (RecordedAction, error) {
	rec := RecordedAction{AgentID: act.AgentID, Action: act.Action}

	a := w.store.Agent(act.AgentID)
	if a == nil {
		// Agent was evicted between submission and resolution.
		rec.Code = protocol.ErrNotFound
		return rec, nil
	}

	var res protocol.ActionConfirmedMsg
	switch act.Action {
	case protocol.ActionMove:
		res = w.applyMove(a, act.Params, nowTick)
	case protocol.ActionHarvest:
		res = w.applyHarvest(a, nowTick)
	case protocol.ActionCraft:
		res = w.applyCraft(a, nowTick)
	default:
		res = actionResult(nowTick, act.Action, false, protocol.ErrUnknownAction,
			fmt.Sprintf("unknown action %q", act.Action))
	}

	a.addResult(res)
	rec.Success = res.Success
	rec.Code = res.Code

	if err := w.verifyPlacement(a.ID); err != nil {
		return rec, err
	}
	return rec, nil
}

// applyMove relocates the agent by one relative step. Targets outside the
// grid leave the agent where it is.
func (w *World) applyMove(a *Agent, params json.RawMessage, nowTick uint64) protocol.ActionConfirmedMsg {
	var mv protocol.MoveParams
	if err := json.Unmarshal(params, &mv); err != nil {
		return actionResult(nowTick, protocol.ActionMove, false, protocol.ErrBadRequest, "malformed move params")
	}
	target := a.Pos.Add(mv.DX, mv.DY)
	if !w.grid.InBounds(target.X, target.Y) {
		return actionResult(nowTick, protocol.ActionMove, false, protocol.ErrOutOfBounds,
			fmt.Sprintf("(%d,%d) is outside the world", target.X, target.Y))
	}
	w.grid.Remove(a.ID, a.Pos.X, a.Pos.Y)
	if err := w.grid.Place(a.ID, target.X, target.Y); err != nil {
		// Unreachable after the bounds check above.
		return actionResult(nowTick, protocol.ActionMove, false, protocol.ErrInternal, err.Error())
	}
	a.Pos = target
	return actionResult(nowTick, protocol.ActionMove, true, "",
		fmt.Sprintf("moved to (%d,%d)", target.X, target.Y))
}

// applyHarvest extracts from a resource sharing the agent's cell. When
// several resources are co-located the lowest id wins, so contested drain
// order is stable across runs.
func (w *World) applyHarvest(a *Agent, nowTick uint64) protocol.ActionConfirmedMsg {
	var target *Resource
	for _, id := range w.grid.OccupantsAt(a.Pos.X, a.Pos.Y) {
		if r := w.store.Resource(id); r != nil && !r.Depleted() {
			target = r
			break
		}
	}
	if target == nil {
		return actionResult(nowTick, protocol.ActionHarvest, false, protocol.ErrNoResource, "nothing to harvest here")
	}

	taken := target.Harvest(w.cfg.HarvestAmount)
	if err := w.store.CreditInventory(a.ID, target.Type, taken); err != nil {
		return actionResult(nowTick, protocol.ActionHarvest, false, protocol.ErrInternal, err.Error())
	}
	if target.Depleted() {
		w.removeEntity(target.ID)
	}
	return actionResult(nowTick, protocol.ActionHarvest, true, "",
		fmt.Sprintf("harvested %d %s", taken, target.Type))
}

// applyCraft converts ore plus fuel into components. Both inputs are checked
// before either is debited so a failed craft never mutates the inventory.
func (w *World) applyCraft(a *Agent, nowTick uint64) protocol.ActionConfirmedMsg {
	ore, fuel := w.cfg.CraftOreCost, w.cfg.CraftFuelCost
	if a.InventoryCount(ResourceOre) < ore || a.InventoryCount(ResourceFuel) < fuel {
		return actionResult(nowTick, protocol.ActionCraft, false, protocol.ErrNoResource,
			fmt.Sprintf("crafting requires %d %s and %d %s", ore, ResourceOre, fuel, ResourceFuel))
	}
	if err := w.store.DebitInventory(a.ID, ResourceOre, ore); err != nil {
		return actionResult(nowTick, protocol.ActionCraft, false, protocol.ErrInternal, err.Error())
	}
	if err := w.store.DebitInventory(a.ID, ResourceFuel, fuel); err != nil {
		return actionResult(nowTick, protocol.ActionCraft, false, protocol.ErrInternal, err.Error())
	}
	if err := w.store.CreditInventory(a.ID, ItemComponents, 1); err != nil {
		return actionResult(nowTick, protocol.ActionCraft, false, protocol.ErrInternal, err.Error())
	}
	return actionResult(nowTick, protocol.ActionCraft, true, "",
		fmt.Sprintf("crafted 1 %s", ItemComponents))
}
