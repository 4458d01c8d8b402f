package examform

// Mode is the dialog state. Closed is the zero value.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
	ModeViewing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	case ModeViewing:
		return "viewing"
	default:
		return "closed"
	}
}

// Dialog headers.
const (
	HeaderView   = "Visualizar Prova"
	HeaderEdit   = "Editar Prova"
	HeaderCreate = "Cadastrar Prova"
)

// header derives the dialog title. A closed dialog reads as "create",
// which is what the next Open without a record shows.
func (m Mode) header() string {
	switch m {
	case ModeViewing:
		return HeaderView
	case ModeEditing:
		return HeaderEdit
	default:
		return HeaderCreate
	}
}
