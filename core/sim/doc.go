// Package sim runs the weekly engine-pool simulation.
//
// Every week executes five phases in a fixed order:
//
//  1. wear accrual and preventive removal,
//  2. maintenance progression and ready-pool construction,
//  3. assignment of ready spares, leasing as the fallback,
//  4. schedule emission (one row per aircraft),
//  5. return of leased engines.
//
// Aircraft are always visited in fleet enumeration order and the ready pool in
// inventory order, so a run is a deterministic function of its input.
package sim
