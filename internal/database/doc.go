// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into a generic record layer and one thin
// sub-package per table:
//
//	database/
//	├── database.go      # Connection setup, pool, migrations, transactions
//	├── records/         # Generic insert-or-update, find, update, delete
//	├── users/           # Bot users keyed by Telegram id
//	├── gifs/            # GIFs keyed by Telegram file id
//	├── tags/            # Global tag texts and orphan cleanup
//	└── links/           # user/gif/tag associations
//
// # Using Sub-packages
//
// Repositories take a *gorm.DB, which can be the pool or a transaction:
//
//	db, err := database.NewDatabase("./gif-tags.db")
//
//	err = db.Transaction(ctx, func(tx *gorm.DB) error {
//		user, err := users.NewRepository(tx).CreateUser(ctx, 12345)
//		if err != nil {
//			return err
//		}
//		gif, err := gifs.NewRepository(tx).CreateGif(ctx, "abc")
//		...
//	})
//
// Nothing in the sub-packages commits on its own; the caller owns the unit of work.
//
// # Adding a New Table
//
//  1. Add the gorm model to internal/entities and to Database.Migrate
//  2. Create a sub-package with Field constants and a records.Schema
//  3. Embed *records.Repository[T] in a Repository struct
//  4. Add narrow find-or-create helpers on top of InsertOrUpdate
package database
