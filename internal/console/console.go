// Package console is the interactive text UI. It collects validated
// primitives, calls registry operations, and flushes a snapshot after every
// mutation. No business rule lives here.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fleet-rental/internal/models"
	"fleet-rental/internal/registry"
	"fleet-rental/internal/services"
)

const dateLayout = "2006-01-02"

// SnapshotSaver is the persistence flush hook invoked after mutations.
type SnapshotSaver interface {
	Save(registry.Snapshot) error
}

type Console struct {
	reg     *registry.Registry
	store   SnapshotSaver
	sched   *services.ScheduleService
	in      *bufio.Scanner
	out     io.Writer
	log     *logrus.Logger
	dueSoon int
	nowFn   func() time.Time

	// eof is set once the input is exhausted; the menus exit instead of
	// re-prompting on empty reads.
	eof bool
}

func New(reg *registry.Registry, store SnapshotSaver, sched *services.ScheduleService, in io.Reader, out io.Writer, dueSoonDays int) *Console {
	return &Console{
		reg:     reg,
		store:   store,
		sched:   sched,
		in:      bufio.NewScanner(in),
		out:     out,
		log:     logrus.StandardLogger(),
		dueSoon: dueSoonDays,
		nowFn:   time.Now,
	}
}

// Run drives the top-level menu until the user exits.
func (c *Console) Run() {
	for {
		c.printf("\n==================================================\n")
		c.printf("              VEHICLE RENTAL SYSTEM\n")
		c.printf("==================================================\n")
		c.printf("1. Login\n2. Register\n3. Exit\n")
		choice := c.prompt("Enter your choice (1-3): ")
		if c.eof {
			return
		}
		switch choice {
		case "1":
			c.login()
		case "2":
			c.register()
		case "3":
			return
		default:
			c.printf("Invalid choice\n")
		}
	}
}

func (c *Console) login() {
	id := c.prompt("User id: ")
	password := c.prompt("Password: ")
	p, err := c.reg.Authenticate(id, password)
	if err != nil {
		c.printf("Login failed: %v\n", err)
		return
	}
	if p.IsAdmin() {
		c.adminMenu(p)
	} else {
		c.clientMenu(p)
	}
}

func (c *Console) register() {
	id := c.prompt("User id ('C...' for client, 'A...' for admin): ")
	name := c.prompt("Name: ")
	birth, ok := c.promptDate("Birth date (YYYY-MM-DD): ")
	if !ok {
		return
	}

	var (
		p   *models.Person
		err error
	)
	if strings.HasPrefix(id, "A") {
		role := models.AdminRole(c.prompt("Role (mechanic/rental_manager/administrator): "))
		p, err = models.NewAdmin(id, name, birth, role)
	} else {
		p, err = models.NewClient(id, name, birth)
	}
	if err != nil {
		c.printf("Registration failed: %v\n", err)
		return
	}

	password := c.prompt("Password: ")
	if password != c.prompt("Confirm password: ") {
		c.printf("Passwords do not match\n")
		return
	}
	if err := p.SetPassword(password); err != nil {
		c.printf("Registration failed: %v\n", err)
		return
	}

	if err := c.reg.AddPerson(p); err != nil {
		c.printf("Registration failed: %v\n", err)
		return
	}
	c.flush()
	c.printf("Registered %s\n", p.ID)
}

func (c *Console) clientMenu(p *models.Person) {
	for {
		c.printf("\nCLIENT MENU (%s):\n", p.ID)
		c.printf("1. View available vehicles\n2. Rent a vehicle\n3. Return a vehicle\n4. My rentals\n5. Next inspection/maintenance for a vehicle\n6. Register a vehicle to my account\n7. Unregister a vehicle\n8. Logout\n")
		choice := c.prompt("Enter your choice (1-8): ")
		if c.eof {
			return
		}
		switch choice {
		case "1":
			c.listVehicles(c.reg.AvailableVehicles())
		case "2":
			c.rentVehicle(p)
		case "3":
			c.returnVehicle(p)
		case "4":
			c.listRentals(c.reg.PersonRentals(p.ID))
		case "5":
			c.showSchedule()
		case "6":
			if err := c.reg.RegisterVehicleToClient(p.ID, c.prompt("Plate: ")); err != nil {
				c.printf("Could not register vehicle: %v\n", err)
			} else {
				c.flush()
				c.printf("Vehicle registered\n")
			}
		case "7":
			if err := c.reg.UnregisterVehicleFromClient(p.ID, c.prompt("Plate: ")); err != nil {
				c.printf("Could not unregister vehicle: %v\n", err)
			} else {
				c.flush()
				c.printf("Vehicle unregistered\n")
			}
		case "8":
			return
		default:
			c.printf("Invalid choice\n")
		}
	}
}

func (c *Console) adminMenu(p *models.Person) {
	for {
		c.printf("\nADMIN MENU (%s, %s):\n", p.ID, p.Role)
		c.printf("1. Add vehicle\n2. Remove vehicle\n3. Update vehicle\n4. View all vehicles\n5. View all rentals\n6. View all users\n7. Remove user\n8. Vehicles due inspection\n9. Vehicles due maintenance\n10. End a rental\n11. Logout\n")
		choice := c.prompt("Enter your choice (1-11): ")
		if c.eof {
			return
		}
		switch choice {
		case "1":
			c.addVehicle()
		case "2":
			c.removeVehicle()
		case "3":
			c.updateVehicle()
		case "4":
			c.listVehicles(c.reg.Vehicles())
		case "5":
			c.listRentals(c.reg.Rentals())
		case "6":
			for _, u := range c.reg.People() {
				c.printf("  %s  %s  (%s)\n", u.ID, u.Name, u.Kind())
			}
		case "7":
			c.removePerson()
		case "8":
			c.listDue(c.sched.UpcomingInspections(c.nowFn(), c.promptThreshold()))
		case "9":
			c.listDue(c.sched.UpcomingMaintenance(c.nowFn(), c.promptThreshold()))
		case "10":
			// Admins may close any rental.
			c.returnVehicle(p)
		case "11":
			return
		default:
			c.printf("Invalid choice\n")
		}
	}
}

func (c *Console) addVehicle() {
	v := models.Vehicle{
		Plate: c.prompt("Plate (4 digits + 3 letters): "),
		Brand: c.prompt("Brand: "),
		Model: c.prompt("Model: "),
		Color: c.prompt("Color: "),
	}
	v.Category = models.VehicleCategory(c.prompt("Category (light/two_wheeler/heavy): "))
	matriculated, ok := c.promptDate("Matriculation date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	v.MatriculationDate = matriculated
	if n, ok := c.promptInt("Mileage (km): "); ok {
		v.Mileage = n
	} else {
		return
	}
	if rate, ok := c.promptFloat("Daily rate: "); ok {
		v.DailyRate = rate
	} else {
		return
	}

	if err := c.reg.AddVehicle(&v); err != nil {
		c.printf("Could not add vehicle: %v\n", err)
		return
	}
	c.flush()
	c.printf("Added %s\n", v.String())
}

func (c *Console) removeVehicle() {
	plate := strings.ToUpper(strings.TrimSpace(c.prompt("Plate: ")))
	if err := c.reg.RemoveVehicle(plate); err != nil {
		c.printf("Could not remove vehicle: %v\n", err)
		return
	}
	c.sched.Invalidate(plate)
	c.flush()
	c.printf("Removed %s\n", plate)
}

func (c *Console) updateVehicle() {
	plate := c.prompt("Plate: ")
	req := registry.UpdateVehicleRequest{
		Brand: c.prompt("New brand (empty to keep): "),
		Model: c.prompt("New model (empty to keep): "),
		Color: c.prompt("New color (empty to keep): "),
	}
	if raw := c.prompt("New mileage (empty to keep): "); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.printf("Invalid mileage\n")
			return
		}
		req.Mileage = &n
	}
	v, err := c.reg.UpdateVehicle(plate, req)
	if err != nil {
		c.printf("Could not update vehicle: %v\n", err)
		return
	}
	c.sched.Invalidate(v.Plate)
	c.flush()
	c.printf("Updated %s\n", v.String())
}

func (c *Console) removePerson() {
	id := c.prompt("User id: ")
	if err := c.reg.RemovePerson(id); err != nil {
		c.printf("Could not remove user: %v\n", err)
		return
	}
	c.flush()
	c.printf("Removed %s\n", id)
}

func (c *Console) rentVehicle(p *models.Person) {
	plate := c.prompt("Plate: ")
	start, ok := c.promptDate("Start date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	end, ok := c.promptDate("End date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	tier := models.AssuranceTier(c.prompt("Assurance tier (basic/medium/full): "))

	rental, err := c.reg.CreateRental(plate, p.ID, start, end, tier)
	if err != nil {
		c.printf("Could not create rental: %v\n", err)
		return
	}
	c.flush()
	c.printf("Rental %s created (initial mileage %d)\n", rental.ID, rental.InitialMileage)
}

func (c *Console) returnVehicle(p *models.Person) {
	rentalID := c.prompt("Rental id: ")
	rental, err := c.reg.Rental(rentalID)
	if err != nil {
		c.printf("Could not end rental: %v\n", err)
		return
	}
	if !p.IsAdmin() && rental.PersonID != p.ID {
		c.printf("Could not end rental: not your rental\n")
		return
	}
	final, ok := c.promptInt("Final mileage (km): ")
	if !ok {
		return
	}
	if err := c.reg.EndRental(rentalID, final); err != nil {
		c.printf("Could not end rental: %v\n", err)
		return
	}
	c.flush()
	c.printf("Rental %s closed\n", rentalID)
}

func (c *Console) showSchedule() {
	plate := c.prompt("Plate: ")
	sched, err := c.sched.VehicleSchedule(plate, c.nowFn())
	if err != nil {
		c.printf("Could not compute schedule: %v\n", err)
		return
	}
	c.printf("Next inspection:  %s\n", sched.NextInspection.Format(dateLayout))
	c.printf("Next maintenance: %s\n", sched.NextMaintenance.Format(dateLayout))
}

func (c *Console) listVehicles(vehicles []*models.Vehicle) {
	if len(vehicles) == 0 {
		c.printf("  (none)\n")
		return
	}
	for _, v := range vehicles {
		c.printf("  %s  %s %s  %s  %d km  %.2f/day\n", v.Plate, v.Brand, v.Model, v.Category, v.Mileage, v.DailyRate)
	}
}

func (c *Console) listRentals(rentals []*models.Rental) {
	if len(rentals) == 0 {
		c.printf("  (none)\n")
		return
	}
	for _, r := range rentals {
		state := "ended"
		if r.Active {
			state = "active"
		}
		c.printf("  %s  %s -> %s  from %s  [%s, %s]\n", r.ID, r.Plate, r.PersonID, r.StartDate.Format(dateLayout), r.AssuranceTier, state)
	}
}

func (c *Console) listDue(due []registry.DueVehicle) {
	if len(due) == 0 {
		c.printf("  (none)\n")
		return
	}
	for _, d := range due {
		c.printf("  %s  due %s  (%d days)\n", d.Vehicle.Plate, d.Due.Format(dateLayout), d.DaysLeft)
	}
}

func (c *Console) promptThreshold() int {
	raw := c.prompt(fmt.Sprintf("Within days (default %d): ", c.dueSoon))
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return n
	}
	return c.dueSoon
}

// flush persists the current registry state. A failed flush keeps the
// session alive; state will be retried on the next mutation.
func (c *Console) flush() {
	if err := c.store.Save(c.reg.Snapshot()); err != nil {
		c.log.WithError(err).Error("failed to save snapshot")
		c.printf("Warning: changes could not be saved: %v\n", err)
	}
}

func (c *Console) prompt(label string) string {
	if c.eof {
		return ""
	}
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		c.eof = true
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *Console) promptDate(label string) (time.Time, bool) {
	raw := c.prompt(label)
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.printf("Invalid date %q, expected YYYY-MM-DD\n", raw)
		return time.Time{}, false
	}
	return t, true
}

func (c *Console) promptInt(label string) (int, bool) {
	raw := c.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.printf("Invalid number %q\n", raw)
		return 0, false
	}
	return n, true
}

func (c *Console) promptFloat(label string) (float64, bool) {
	raw := c.prompt(label)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.printf("Invalid number %q\n", raw)
		return 0, false
	}
	return f, true
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
