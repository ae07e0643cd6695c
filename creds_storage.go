package oneclick

import (
	"encoding/json"
	"io"

	"github.com/rusq/encio"
)

type credsStorage struct {
	filename string
}

// storedCreds is the structure of data in the storage.
type storedCreds struct {
	Credentials
	PhoneOperator string `json:"operator,omitempty"`
	IP            string `json:"ip,omitempty"`
}

// IsAvailable returns true if the credentials filename is set.
func (cs credsStorage) IsAvailable() bool {
	return cs.filename != ""
}

func (cs credsStorage) Save(c storedCreds) error {
	f, err := encio.Create(cs.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return cs.write(f, c)
}

func (cs credsStorage) write(f io.Writer, c storedCreds) error {
	enc := json.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return nil
}

func (cs credsStorage) Load() (storedCreds, error) {
	f, err := encio.Open(cs.filename)
	if err != nil {
		return storedCreds{}, err
	}
	defer f.Close()

	return cs.read(f)
}

func (cs credsStorage) read(r io.Reader) (storedCreds, error) {
	var cr storedCreds
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cr); err != nil {
		return storedCreds{}, err
	}
	return cr, nil
}
