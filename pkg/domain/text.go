package domain

import "github.com/google/uuid"

// Text marshalling so IDs serialize as canonical UUID strings in JSON bodies
// exchanged with the backend and the browser.

func (id UserID) MarshalText() ([]byte, error)       { return marshalUUID(uuid.UUID(id)) }
func (id CompanyID) MarshalText() ([]byte, error)    { return marshalUUID(uuid.UUID(id)) }
func (id HabitID) MarshalText() ([]byte, error)      { return marshalUUID(uuid.UUID(id)) }
func (id HabitTypeID) MarshalText() ([]byte, error)  { return marshalUUID(uuid.UUID(id)) }
func (id RewardID) MarshalText() ([]byte, error)     { return marshalUUID(uuid.UUID(id)) }
func (id RedemptionID) MarshalText() ([]byte, error) { return marshalUUID(uuid.UUID(id)) }

func (id *UserID) UnmarshalText(b []byte) error       { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *CompanyID) UnmarshalText(b []byte) error    { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *HabitID) UnmarshalText(b []byte) error      { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *HabitTypeID) UnmarshalText(b []byte) error  { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *RewardID) UnmarshalText(b []byte) error     { return unmarshalUUID((*uuid.UUID)(id), b) }
func (id *RedemptionID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

func marshalUUID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalUUID(dst *uuid.UUID, b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*dst = u
	return nil
}
