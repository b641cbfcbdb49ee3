package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"host role", RoleHost, true},
		{"client role", RoleClient, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	host := &User{Role: RoleHost}
	client := &User{Role: RoleClient}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, "delete_user", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can review claims", admin, "review_claim", true},
		{"admin can send campaigns", admin, "send_campaign", true},

		// Host permissions - operational tasks on cars they host
		{"host can view cars", host, "view_cars", true},
		{"host can create earning", host, "create_earning", true},
		{"host can update earning", host, "update_earning", true},
		{"host can create expense", host, "create_expense", true},
		{"host can create claim", host, "create_claim", true},
		{"host cannot review claims", host, "review_claim", false},
		{"host cannot send campaigns", host, "send_campaign", false},
		{"host cannot manage users", host, "manage_users", false},

		// Client permissions - read-only plus return requests
		{"client can view cars", client, "view_cars", true},
		{"client can view earnings", client, "view_earnings", true},
		{"client can view portfolio", client, "view_portfolio", true},
		{"client can request return", client, "request_return", true},
		{"client cannot create earning", client, "create_earning", false},
		{"client cannot create expense", client, "create_expense", false},
		{"client cannot manage users", client, "manage_users", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_StructFields(t *testing.T) {
	now := time.Now()
	user := &User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Test that all fields are properly set
	if user.Username != "testuser" {
		t.Errorf("Expected Username to be 'testuser', got %s", user.Username)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected Email to be 'test@example.com', got %s", user.Email)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected Role to be RoleAdmin, got %s", user.Role)
	}
	if !user.IsActive {
		t.Errorf("Expected IsActive to be true, got %v", user.IsActive)
	}
	if user.LastLogin == nil {
		t.Errorf("Expected LastLogin to be set, got nil")
	}
	if user.CreatedAt != now {
		t.Errorf("Expected CreatedAt to be set, got %v", user.CreatedAt)
	}
}
