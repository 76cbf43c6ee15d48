package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "owner", input: "owner", want: RoleOwner},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "cashier", input: "cashier", want: RoleCashier},
		{name: "waiter", input: "waiter", want: RoleWaiter},
		{name: "cook", input: "cook", want: RoleCook},
		{name: "unknown role", input: "manager", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "case sensitive", input: "Owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole_CanManage(t *testing.T) {
	tests := []struct {
		name    string
		manager Role
		target  Role
		want    bool
	}{
		{name: "owner manages admin", manager: RoleOwner, target: RoleAdmin, want: true},
		{name: "owner manages cook", manager: RoleOwner, target: RoleCook, want: true},
		{name: "admin manages cashier", manager: RoleAdmin, target: RoleCashier, want: true},
		{name: "admin cannot manage admin", manager: RoleAdmin, target: RoleAdmin, want: false},
		{name: "admin cannot manage owner", manager: RoleAdmin, target: RoleOwner, want: false},
		{name: "nobody manages owner", manager: RoleOwner, target: RoleOwner, want: false},
		{name: "cashier cannot manage waiter upward", manager: RoleWaiter, target: RoleCashier, want: false},
		{name: "cashier manages waiter", manager: RoleCashier, target: RoleWaiter, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manager.CanManage(tt.target); got != tt.want {
				t.Errorf("%s.CanManage(%s) = %v, want %v", tt.manager, tt.target, got, tt.want)
			}
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleCashier, RoleWaiter, RoleCook} {
		if !r.IsValid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("superuser").IsValid() {
		t.Error("expected superuser to be invalid")
	}
}
