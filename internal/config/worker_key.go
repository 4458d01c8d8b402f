package config

type WorkerKeyStruct struct {
	PersistExamAuditQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistExamAuditQueue: "persist_exam_audit_queue",
}
