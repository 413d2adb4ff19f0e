package remote

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/idilsaglam/cards/internal/model"
)

// userJSON is the collection's field layout. The fields are repurposed:
// last_name holds the price and email the description.
type userJSON struct {
	ID        *flexID `json:"id,omitempty"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Avatar    string  `json:"avatar"`
}

type listJSON struct {
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Data       []userJSON `json:"data"`
}

type createdJSON struct {
	userJSON
	CreatedAt time.Time `json:"createdAt"`
}

func fromDraft(d model.Draft) userJSON {
	return userJSON{FirstName: d.Title, LastName: d.Subtitle, Email: d.Note, Avatar: d.ImageRef}
}

func (u userJSON) draft() model.Draft {
	return model.Draft{Title: u.FirstName, Subtitle: u.LastName, Note: u.Email, ImageRef: u.Avatar}
}

func (u userJSON) record() model.Record {
	id := 0
	if u.ID != nil {
		id = int(*u.ID)
	}
	return u.draft().WithID(id)
}

// flexID accepts 12 and "12". The public service echoes ids from POST as strings.
type flexID int

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", b)
	}
	*f = flexID(n)
	return nil
}

func (f flexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}
