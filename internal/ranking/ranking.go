package ranking

import (
	"sort"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Class is the three-way classification of a roster worker for one
// complaint, plus the already-assigned bucket that is displayed but never
// selectable.
type Class string

const (
	ClassAssigned    Class = "assigned"
	ClassAvailable   Class = "available"
	ClassRecommended Class = "recommended"
	ClassUnavailable Class = "unavailable"
)

// RankedWorker pairs a roster entry with its classification.
type RankedWorker struct {
	domain.WorkerRosterEntry
	Class Class
}

// Result is the ranked view of a roster for one complaint. Workers holds the
// full classified roster in display order; Selectable is the subset a
// manager may actually pick (available first, then recommended).
type Result struct {
	Workers    []RankedWorker
	Selectable []RankedWorker
}

// RankWorkers classifies and orders a roster snapshot. assigned holds the
// worker ids already linked to the complaint. The function is pure: it never
// mutates the snapshot and identical inputs yield identical output. An empty
// roster yields an empty result, not an error.
//
// A busy worker who is near ranks as recommended rather than unavailable:
// proximity is cheaper to overcome than load, so a nearby busy worker can
// often take a task sooner than a distant available one.
func RankWorkers(roster []domain.WorkerRosterEntry, assigned map[string]bool) Result {
	buckets := map[Class][]RankedWorker{}
	for _, entry := range roster {
		class := Classify(entry, assigned[entry.WorkerID])
		buckets[class] = append(buckets[class], RankedWorker{WorkerRosterEntry: entry, Class: class})
	}

	sortByWorkerID(buckets[ClassAvailable])
	sortByQueue(buckets[ClassRecommended])
	sortByWorkerID(buckets[ClassAssigned])
	sortByWorkerID(buckets[ClassUnavailable])

	selectable := append([]RankedWorker{}, buckets[ClassAvailable]...)
	selectable = append(selectable, buckets[ClassRecommended]...)

	workers := append([]RankedWorker{}, selectable...)
	workers = append(workers, buckets[ClassAssigned]...)
	workers = append(workers, buckets[ClassUnavailable]...)

	return Result{Workers: workers, Selectable: selectable}
}

// Classify evaluates one worker independently of the rest of the roster.
func Classify(entry domain.WorkerRosterEntry, alreadyAssigned bool) Class {
	switch {
	case alreadyAssigned:
		return ClassAssigned
	case entry.Status == domain.WorkerStatusAvailable:
		return ClassAvailable
	case entry.Status == domain.WorkerStatusBusy && entry.Near:
		return ClassRecommended
	default:
		return ClassUnavailable
	}
}

// AssignmentStatusFor maps a selectable class to the per-assignment status a
// new assignment row starts in: available workers take the task immediately,
// recommended (busy-near) workers receive it in their queue.
func AssignmentStatusFor(class Class) domain.AssignmentStatus {
	if class == ClassRecommended {
		return domain.AssignmentStatusInQueue
	}
	return domain.AssignmentStatusActive
}

func sortByWorkerID(workers []RankedWorker) {
	sort.Slice(workers, func(i, j int) bool {
		return workers[i].WorkerID < workers[j].WorkerID
	})
}

// sortByQueue orders by ascending pending load, worker id as tie-breaker.
func sortByQueue(workers []RankedWorker) {
	sort.Slice(workers, func(i, j int) bool {
		if workers[i].QueueCount != workers[j].QueueCount {
			return workers[i].QueueCount < workers[j].QueueCount
		}
		return workers[i].WorkerID < workers[j].WorkerID
	})
}
