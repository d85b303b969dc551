package persistence

// Employee is a calendar column owner. Names are unique.
type Employee struct {
	ID   int64
	Name string
}

// Lead is a sales lead owned by one employee.
type Lead struct {
	ID         int64
	EmployeeID int64
	Employee   string
	Firstname  string
	Lastname   string
	Create     string
}

// Event is shared by its participants, kept in the order they were added.
type Event struct {
	ID           int64
	Title        string
	Start        string
	End          string
	Create       string
	Participants []string
}

// Checkin is a patient check-in handled by one employee.
type Checkin struct {
	ID         int64
	EmployeeID int64
	Employee   string
	Patient    string
	Notes      string
	Checkin    string
	Create     string
}

// Form is the field layout of one record type for one form type
// (quickadd, hover, main, summary).
type Form struct {
	ID       int64
	Record   string
	FormType string
	Label    string
	Fields   []FormField
	Subtabs  []FormSubtab
}

// FormField is one field placed on a form.
type FormField struct {
	ID           int64
	Name         string
	Type         string
	ForeignTable *string
	Label        string
	ReadOnly     bool
	Order        int
	SubtabID     *int64
}

// FormSubtab groups form fields under a tab.
type FormSubtab struct {
	ID    int64
	Label string
	Order int
}
