// README: Shared identifier and coordinate value types.
package types

type ID string

type Point struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}
