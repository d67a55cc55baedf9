// Package menu is the interactive text front end of the store manager.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/storemanager/v1/model"
)

// Banner is printed once when the menu starts.
const Banner = "===== THE CORNER STORE ====="

const unknownOption = "This option does not exist."

// errInputClosed ends the menu when the operator closes standard input.
var errInputClosed = errors.New("menu: input closed")

// Products is the product controller as seen by the menu.
type Products interface {
	ListProducts(ctx context.Context) []model.Product
	CreateProduct(ctx context.Context, p model.Product) int64
	UpdateProduct(ctx context.Context, p model.Product) int64
	DeleteProduct(ctx context.Context, id int64) int64
}

// Users is the user controller as seen by the menu.
type Users interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u model.User) (int64, error)
	UpdateUser(ctx context.Context, u model.User) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
}

// Menu reads choices line by line from in and writes prompts and results to out.
type Menu struct {
	in       *bufio.Reader
	out      io.Writer
	products Products
	users    Users
}

// New returns a menu over in and out.
func New(in io.Reader, out io.Writer, products Products, users Users) *Menu {
	return &Menu{
		in:       bufio.NewReader(in),
		out:      out,
		products: products,
		users:    users,
	}
}

// Run shows the main menu until the operator quits or input ends.
// It returns an error only if reading input fails.
func (m *Menu) Run(ctx context.Context) error {
	m.println(Banner)

	err := m.mainLoop(ctx)
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (m *Menu) mainLoop(ctx context.Context) error {
	for {
		m.println("\n1. Manage users\n2. Manage products\n3. Quit")
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.userLoop(ctx)
		case "2":
			err = m.productLoop(ctx)
		case "3":
			return nil
		default:
			m.println(unknownOption)
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) userLoop(ctx context.Context) error {
	for {
		m.println("\n1. List users\n2. Create user\n3. Update user\n4. Delete user\n5. Back")
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.listUsers(ctx)
		case "2":
			err = m.createUser(ctx)
		case "3":
			err = m.updateUser(ctx)
		case "4":
			err = m.deleteUser(ctx)
		case "5":
			return nil
		default:
			m.println(unknownOption)
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) listUsers(ctx context.Context) {
	users, err := m.users.ListUsers(ctx)
	if err != nil {
		m.printf("Could not list users: %v\n", err)
		return
	}
	if len(users) == 0 {
		m.println("No users.")
		return
	}
	for _, u := range users {
		m.println(u.String())
	}
}

func (m *Menu) createUser(ctx context.Context) error {
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}

	id, err := m.users.CreateUser(ctx, model.NewUser(name, email))
	if err != nil {
		m.printf("Could not create user: %v\n", err)
		return nil
	}
	m.printf("User created with id %d.\n", id)
	return nil
}

func (m *Menu) updateUser(ctx context.Context) error {
	id, ok, err := m.promptID()
	if err != nil || !ok {
		return err
	}
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}

	n, err := m.users.UpdateUser(ctx, model.User{ID: id, Name: name, Email: email})
	if err != nil {
		m.printf("Could not update user: %v\n", err)
		return nil
	}
	m.printf("%d user(s) updated.\n", n)
	return nil
}

func (m *Menu) deleteUser(ctx context.Context) error {
	id, ok, err := m.promptID()
	if err != nil || !ok {
		return err
	}

	n, err := m.users.DeleteUser(ctx, id)
	if err != nil {
		m.printf("Could not delete user: %v\n", err)
		return nil
	}
	m.printf("%d user(s) deleted.\n", n)
	return nil
}

func (m *Menu) productLoop(ctx context.Context) error {
	for {
		m.println("\n1. List products\n2. Create product\n3. Update product\n4. Delete product\n5. Back")
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.listProducts(ctx)
		case "2":
			err = m.createProduct(ctx)
		case "3":
			err = m.updateProduct(ctx)
		case "4":
			err = m.deleteProduct(ctx)
		case "5":
			return nil
		default:
			m.println(unknownOption)
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) listProducts(ctx context.Context) {
	products := m.products.ListProducts(ctx)
	if len(products) == 0 {
		m.println("No products.")
		return
	}
	for _, p := range products {
		m.println(p.String())
	}
}

// promptProduct asks for the editable product fields. ok is false when the
// price is not a non-negative number with at most two decimals.
func (m *Menu) promptProduct() (p model.Product, ok bool, err error) {
	if p.Name, err = m.prompt("Name: "); err != nil {
		return p, false, err
	}
	if p.Brand, err = m.prompt("Brand: "); err != nil {
		return p, false, err
	}
	raw, err := m.prompt("Price: ")
	if err != nil {
		return p, false, err
	}
	price, perr := strconv.ParseFloat(raw, 64)
	p.Price = price
	if perr != nil || price < 0 || !p.ExactPrice() {
		m.println("Invalid price.")
		return p, false, nil
	}
	return p, true, nil
}

func (m *Menu) createProduct(ctx context.Context) error {
	p, ok, err := m.promptProduct()
	if err != nil || !ok {
		return err
	}

	id := m.products.CreateProduct(ctx, p)
	if id == 0 {
		m.println("Product was not created.")
		return nil
	}
	m.printf("Product created with id %d.\n", id)
	return nil
}

func (m *Menu) updateProduct(ctx context.Context) error {
	id, ok, err := m.promptID()
	if err != nil || !ok {
		return err
	}
	p, ok, err := m.promptProduct()
	if err != nil || !ok {
		return err
	}
	p.ID = id

	m.printf("%d product(s) updated.\n", m.products.UpdateProduct(ctx, p))
	return nil
}

func (m *Menu) deleteProduct(ctx context.Context) error {
	id, ok, err := m.promptID()
	if err != nil || !ok {
		return err
	}

	m.printf("%d product(s) deleted.\n", m.products.DeleteProduct(ctx, id))
	return nil
}

// promptID asks for a record id. ok is false when the input is not a positive integer.
func (m *Menu) promptID() (int64, bool, error) {
	raw, err := m.prompt("Id: ")
	if err != nil {
		return 0, false, err
	}
	id, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil || id <= 0 {
		m.println("Invalid id.")
		return 0, false, nil
	}
	return id, true, nil
}

// prompt writes label and returns the next trimmed input line. Lines have no
// length limit. A last line without newline is still returned.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		m.println("")
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}
