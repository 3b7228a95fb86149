// README: Registration table mapping external telemetry units to logical vehicles.
package fleet

import "skyhail/internal/types"

// Registry resolves an external telemetry unit id to a logical vehicle id.
// A unit with no registration entry fails closed: it is skipped, never
// misassigned.
type Registry interface {
	Resolve(unitID string) (types.ID, bool)
}

type StaticRegistry map[string]types.ID

func (r StaticRegistry) Resolve(unitID string) (types.ID, bool) {
	id, ok := r[unitID]
	return id, ok
}

func RegistryFromConfig(idMap map[string]string) StaticRegistry {
	r := make(StaticRegistry, len(idMap))
	for unitID, vehicleID := range idMap {
		r[unitID] = types.ID(vehicleID)
	}
	return r
}
