package api

import "github.com/ppgllrd/contagion-sim/internal/sim"

// IndividualDTO is the wire representation of one individual's renderable
// state, decoupled from sim.IndividualSnapshot so the simulation package
// never needs to know about JSON tags.
type IndividualDTO struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health string  `json:"health"`
}

// TallyDTO is the wire representation of sim.Tally.
type TallyDTO struct {
	Total       int `json:"total"`
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Recovered   int `json:"recovered"`
	Dead        int `json:"dead"`
}

// SnapshotDTO is the wire representation of sim.Snapshot broadcast over
// /ws and returned by GET /api/state.
type SnapshotDTO struct {
	Sequence    uint64          `json:"sequence"`
	Time        float64         `json:"time"`
	Tally       TallyDTO        `json:"tally"`
	Individuals []IndividualDTO `json:"individuals"`
}

// NewSnapshotDTO converts a sim.Snapshot to its wire representation, for
// callers outside this package (the WebSocket broadcast hook wired from
// cmd serve).
func NewSnapshotDTO(snap *sim.Snapshot) SnapshotDTO { return newSnapshotDTO(snap) }

func newSnapshotDTO(snap *sim.Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		Sequence: snap.Sequence,
		Time:     snap.Time,
		Tally: TallyDTO{
			Total:       snap.Tally.Total,
			Susceptible: snap.Tally.Susceptible,
			Infected:    snap.Tally.Infected,
			Recovered:   snap.Tally.Recovered,
			Dead:        snap.Tally.Dead,
		},
		Individuals: make([]IndividualDTO, len(snap.Individuals)),
	}
	for i, ind := range snap.Individuals {
		dto.Individuals[i] = IndividualDTO{ID: ind.ID, X: ind.X, Y: ind.Y, Health: ind.Health.String()}
	}
	return dto
}

// HistoryDTO is the wire representation of sim.History.
type HistoryDTO struct {
	Resolution         int       `json:"resolution"`
	PercentInfected    []float64 `json:"percent_infected"`
	PercentNonInfected []float64 `json:"percent_non_infected"`
}

func newHistoryDTO(h *sim.History) HistoryDTO {
	return HistoryDTO{
		Resolution:         sim.HistoryResolution,
		PercentInfected:    h.PercentInfected,
		PercentNonInfected: h.PercentNonInfected,
	}
}
