// README: Vehicle registry records for the drone fleet.
package vehicle

import "skyhail/internal/types"

type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

type Vehicle struct {
	ID                     types.ID
	Model                  string
	Icon                   string
	Coords                 types.Point
	MissionsCompleted      int
	MissionsCompleted7Days int
	Status                 Status
}
