package database

import (
	"fmt"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultRoles = []models.Role{
	{Name: string(models.RoleAdmin), Description: "Full system administrator"},
	{Name: string(models.RoleModerator), Description: "Content moderation privileges"},
	{Name: string(models.RoleUser), Description: "Standard user privileges"},
	{Name: string(models.RolePremiumUser), Description: "Premium user with extended features"},
}

var defaultPermissions = []models.Permission{
	{Name: "create_posts", Description: "Create new posts", Resource: "posts", Action: "create"},
	{Name: "edit_posts", Description: "Edit posts", Resource: "posts", Action: "update"},
	{Name: "delete_posts", Description: "Delete posts", Resource: "posts", Action: "delete"},
	{Name: "view_posts", Description: "View posts", Resource: "posts", Action: "read"},
	{Name: "manage_users", Description: "Manage user accounts", Resource: "users", Action: "manage"},
	{Name: "view_profiles", Description: "View user profiles", Resource: "users", Action: "read"},
	{Name: "take_personality_test", Description: "Take personality assessments", Resource: "results", Action: "create"},
	{Name: "view_results", Description: "View personality results", Resource: "results", Action: "read"},
}

// defaultGrants maps each built-in role to its permission names. The admin
// role is granted everything when seeding.
var defaultGrants = map[models.RoleName][]string{
	models.RoleModerator:   {"edit_posts", "delete_posts", "view_posts", "view_profiles"},
	models.RoleUser:        {"create_posts", "view_posts", "view_profiles", "take_personality_test", "view_results"},
	models.RolePremiumUser: {"create_posts", "edit_posts", "view_posts", "view_profiles", "take_personality_test", "view_results"},
}

// Seed inserts the default roles, permissions and role-permission grants.
// Existing rows are left untouched, so Seed is safe to run on every start.
func Seed(db *gorm.DB) error {
	for _, role := range defaultRoles {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %q: %w", role.Name, err)
		}
	}

	for _, perm := range defaultPermissions {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&perm).Error
		if err != nil {
			return fmt.Errorf("seed permission %q: %w", perm.Name, err)
		}
	}

	if err := seedGrants(db); err != nil {
		return err
	}

	logger.Log.Info("Default roles and permissions created")
	return nil
}

func seedGrants(db *gorm.DB) error {
	var perms []models.Permission
	if err := db.Find(&perms).Error; err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}
	permIDs := make(map[string]uint, len(perms))
	allPerms := make([]string, 0, len(perms))
	for _, p := range perms {
		permIDs[p.Name] = p.ID
		allPerms = append(allPerms, p.Name)
	}

	grants := map[models.RoleName][]string{models.RoleAdmin: allPerms}
	for role, names := range defaultGrants {
		grants[role] = names
	}

	for roleName, names := range grants {
		var role models.Role
		err := db.Where("name = ?", string(roleName)).First(&role).Error
		if err != nil {
			return fmt.Errorf("load role %q: %w", roleName, err)
		}
		for _, name := range names {
			permID, ok := permIDs[name]
			if !ok {
				continue
			}
			grant := models.RolePermission{RoleID: role.ID, PermissionID: permID}
			err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error
			if err != nil {
				return fmt.Errorf("grant %q to %q: %w", name, roleName, err)
			}
		}
	}
	return nil
}
