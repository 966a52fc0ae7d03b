package ingest

// Outcome is the closed set of ingestion results.
type Outcome int

const (
	// Accepted: at least one record survived and the catalog was replaced.
	Accepted Outcome = iota + 1
	// Rejected: every record was garbage; the catalog is unchanged.
	Rejected
	// Error: the payload or the upstream fetch failed; the catalog is unchanged.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MsgNoValidRecords is the message carried by a Rejected result.
const MsgNoValidRecords = "no valid records"

// Result reports what one ingestion did.
type Result struct {
	Outcome Outcome
	Count   int    // records accepted into the dynamic set
	Dropped int    // garbage items discarded
	Message string // reason for Rejected / Error
	BatchID string
	Version uint64 // snapshot version published on Accepted
	Total   int    // catalog size after an Accepted publish
	Err     error  // underlying cause for Error
}

func accepted(batchID string, count, dropped int, version uint64) Result {
	return Result{Outcome: Accepted, Count: count, Dropped: dropped, BatchID: batchID, Version: version}
}

func rejected(batchID string, dropped int) Result {
	return Result{Outcome: Rejected, Dropped: dropped, Message: MsgNoValidRecords, BatchID: batchID}
}

func failed(batchID string, err error) Result {
	return Result{Outcome: Error, Message: err.Error(), BatchID: batchID, Err: err}
}
