package model

// Label is the closed set of categories an email can be filed under.
type Label string

const (
	LabelImportant  Label = "Important"
	LabelNewsletter Label = "Newsletter"
	LabelSpam       Label = "Spam"
	LabelToDo       Label = "To-Do"
)

// Labels lists every valid label in matching priority order.
var Labels = []Label{LabelImportant, LabelNewsletter, LabelSpam, LabelToDo}

func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	return string(l)
}
