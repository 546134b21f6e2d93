package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_IDFromUserIDOrID(t *testing.T) {
	var u UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"u-1","username":"an"}`), &u))
	assert.Equal(t, "u-1", u.ID)

	u = UserProfile{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u-2","email":"a@b.c"}`), &u))
	assert.Equal(t, "u-2", u.ID)
	assert.Equal(t, "a@b.c", u.Email)

	u = UserProfile{}
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"u-3","id":"ignored"}`), &u))
	assert.Equal(t, "u-3", u.ID)
}

func TestUserProfile_MarshalUsesUserID(t *testing.T) {
	b, err := json.Marshal(UserProfile{ID: "u-1", Username: "an", Email: "a@b.c"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"u-1","username":"an","email":"a@b.c"}`, string(b))
}

func TestUserProfile_HasInlineAvatar(t *testing.T) {
	assert.True(t, UserProfile{ProfilePicture: "data:image/png;base64,AAAA"}.HasInlineAvatar())
	assert.False(t, UserProfile{ProfilePicture: "https://cdn/x.png"}.HasInlineAvatar())
	assert.False(t, UserProfile{}.HasInlineAvatar())
}

func TestProfileUpdate_OmitsNilPicture(t *testing.T) {
	b, err := json.Marshal(ProfileUpdate{Username: "an", Email: "a@b.c"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"an","email":"a@b.c"}`, string(b))

	pic := "https://cdn/x.png"
	b, err = json.Marshal(ProfileUpdate{Username: "an", Email: "a@b.c", ProfilePicture: &pic})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"an","email":"a@b.c","profile_picture":"https://cdn/x.png"}`, string(b))
}

func TestEntry_LocationForms(t *testing.T) {
	var entries []Entry
	body := `[
		{"entryId":"e1","title":"Hue","location":"Hue, Vietnam"},
		{"entryId":"e2","title":"Hanoi","location":{"name":"Hanoi","lat":21.03,"lng":105.85}},
		{"entryId":"e3","title":"none","location":null},
		{"entryId":"e4","title":"missing"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 4)

	require.NotNil(t, entries[0].Location)
	assert.Equal(t, "Hue, Vietnam", entries[0].Location.String())
	assert.False(t, entries[0].Location.HasPoint())

	require.NotNil(t, entries[1].Location)
	assert.True(t, entries[1].Location.HasPoint())
	assert.Equal(t, "Hanoi (21.03,105.85)", entries[1].Location.String())

	assert.Nil(t, entries[2].Location)
	assert.Nil(t, entries[3].Location)
}

func TestLocation_RejectsOtherJSON(t *testing.T) {
	var l Location
	err := json.Unmarshal([]byte(`42`), &l)
	require.ErrorIs(t, err, ErrInvalidLocation)
}

func TestLocation_MarshalRoundTripShape(t *testing.T) {
	b, err := json.Marshal(Location{Name: "Da Lat"})
	require.NoError(t, err)
	assert.Equal(t, `"Da Lat"`, string(b))

	lat, lng := 11.94, 108.44
	b, err = json.Marshal(Location{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":11.94,"lng":108.44}`, string(b))
}

func TestParseLocation(t *testing.T) {
	assert.Nil(t, ParseLocation(""))

	l := ParseLocation("10.5, 106.7")
	require.NotNil(t, l)
	require.True(t, l.HasPoint())
	assert.Equal(t, 10.5, *l.Lat)
	assert.Equal(t, 106.7, *l.Lng)

	l = ParseLocation("Ho Chi Minh City, Vietnam")
	require.NotNil(t, l)
	assert.False(t, l.HasPoint())
	assert.Equal(t, "Ho Chi Minh City, Vietnam", l.Name)
}
