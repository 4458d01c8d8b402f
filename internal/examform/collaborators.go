package examform

import (
	"context"

	"github.com/sgp/sgp-backend/internal/model"
)

// AlertKind selects how an alert is rendered.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// Alerter shows a non-blocking message to the user.
type Alerter interface {
	Alert(kind AlertKind, title, message string)
}

// Loader is the global loading indicator.
type Loader interface {
	Activate()
	Deactivate()
}

// QuestionLister fetches one page of the question drop-down.
type QuestionLister interface {
	ListForDropdown(ctx context.Context, filter model.QuestionFilter, page model.PageRequest) (*model.Page[model.SelectItem], error)
}

// ExamStore persists exams. Create may set exam.ID from the server response.
type ExamStore interface {
	Create(ctx context.Context, exam *model.Exam) error
	Update(ctx context.Context, exam *model.Exam) error
}

// Hooks are the notifications the dialog sends to its host.
type Hooks struct {
	// OnSaved receives the submitted record after a successful create or update.
	OnSaved func(exam model.Exam)
}

// Alert texts shown by the dialog.
const (
	titleValidation = "Erro"
	msgValidation   = "Preenchimento obrigatório dos campos: titulo e Percentual de Aprovação"
	titleSuccess    = "Sucesso!"
	msgCreated      = "Prova cadastrada com sucesso!"
	msgUpdated      = "Prova atualizada com sucesso!"
	titleFailure    = "Error!"
	msgCreateFailed = "Erro ao salvar a Prova, verifique os campos"
	msgUpdateFailed = "Erro ao atualizar a Prova"
)

type noopLoader struct{}

func (noopLoader) Activate()   {}
func (noopLoader) Deactivate() {}
