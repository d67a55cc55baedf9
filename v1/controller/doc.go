// Package controller sits between the menu and the DAOs.
//
// Both controllers delegate every call to one store.Store and add no business
// logic. They differ only in how they treat store failures:
//
//   - ProductController is fail-soft. A failed call is logged as a warning and
//     the caller sees an empty list or a zero count, the same result as "no data".
//   - UserController is fail-loud. Every error is returned to the caller.
package controller
