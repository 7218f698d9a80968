package domain

import "time"

// Favorite marks a recipe bookmarked by a user.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Favorite) TableName() string { return "favorites" }

// ShoppingCartItem marks a recipe selected for the user's shopping list.
type ShoppingCartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ShoppingCartItem) TableName() string { return "shopping_cart_items" }

// Subscription is a follow from FollowerID to AuthorID. The two ids never match.
type Subscription struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	FollowerID int64     `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_subscription_pair"`
	AuthorID   int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscription_pair"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Subscription) TableName() string { return "subscriptions" }

// Models lists every table the service migrates on startup.
func Models() []any {
	return []any{
		&User{},
		&RevokedToken{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}
