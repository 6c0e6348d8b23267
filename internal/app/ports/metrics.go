package ports

// WorldMetrics counts the persistence-boundary outcomes that matter when
// diagnosing lost saves in the field.
type WorldMetrics interface {
	RecordSceneCreated()
	RecordSnapshotSaved()
	RecordSaveFailure()
	RecordLoadFallback()
}
