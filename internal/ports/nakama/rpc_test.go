package nakama

import (
	"errors"
	"testing"
)

func TestValidateCreateCourt(t *testing.T) {
	const adminPassword = "punto"

	tests := []struct {
		name    string
		req     createCourtRequest
		wantErr error
	}{
		{
			name: "Valid",
			req: createCourtRequest{
				AdminPassword: adminPassword,
				CourtName:     "Center Court",
				CourtPassword: "sunset42",
			},
			wantErr: nil,
		},
		{
			name: "WrongAdminPassword",
			req: createCourtRequest{
				AdminPassword: "guess",
				CourtName:     "Center Court",
				CourtPassword: "sunset42",
			},
			wantErr: errInvalidAdminPassword,
		},
		{
			name: "EmptyCourtName",
			req: createCourtRequest{
				AdminPassword: adminPassword,
				CourtName:     "   ",
				CourtPassword: "sunset42",
			},
			wantErr: errCourtNameRequired,
		},
		{
			name: "PasswordTooShort",
			req: createCourtRequest{
				AdminPassword: adminPassword,
				CourtName:     "Center Court",
				CourtPassword: "abc",
			},
			wantErr: errCourtPasswordTooShort,
		},
		{
			name: "PasswordAllWhitespace",
			req: createCourtRequest{
				AdminPassword: adminPassword,
				CourtName:     "Center Court",
				CourtPassword: "      ",
			},
			wantErr: errCourtPasswordTooShort,
		},
		{
			name: "MinimumLengthPassword",
			req: createCourtRequest{
				AdminPassword: adminPassword,
				CourtName:     "Center Court",
				CourtPassword: "abcd",
			},
			wantErr: nil,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			err := validateCreateCourt(test.req, adminPassword)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("validateCreateCourt() = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestParseHoldAction(t *testing.T) {
	tests := []struct {
		name   string
		req    holdRequest
		wantOK bool
	}{
		{name: "Undo", req: holdRequest{Action: "undo"}, wantOK: true},
		{name: "ShallowReset", req: holdRequest{Action: "reset"}, wantOK: true},
		{name: "FullReset", req: holdRequest{Action: "reset", Full: true}, wantOK: true},
		{name: "Back", req: holdRequest{Action: "back"}, wantOK: true},
		{name: "Mute", req: holdRequest{Action: "mute"}, wantOK: true},
		{name: "Point", req: holdRequest{Action: "point"}, wantOK: false},
		{name: "Garbage", req: holdRequest{Action: "frobnicate"}, wantOK: false},
		{name: "Empty", req: holdRequest{}, wantOK: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			action, ok := parseHoldAction(test.req)
			if ok != test.wantOK {
				t.Fatalf("parseHoldAction(%q) ok = %t, want %t", test.req.Action, ok, test.wantOK)
			}
			if ok && action.Full != test.req.Full {
				t.Fatalf("parseHoldAction(%q) full = %t, want %t", test.req.Action, action.Full, test.req.Full)
			}
		})
	}
}
