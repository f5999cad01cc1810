package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-rental/internal/models"
	"fleet-rental/internal/registry"
	"fleet-rental/internal/services"
)

type fakeSaver struct {
	saves int
	last  registry.Snapshot
}

func (f *fakeSaver) Save(snap registry.Snapshot) error {
	f.saves++
	f.last = snap
	return nil
}

func runScript(t *testing.T, reg *registry.Registry, script ...string) (*fakeSaver, string) {
	t.Helper()
	saver := &fakeSaver{}
	var out bytes.Buffer
	ui := New(reg, saver, services.NewScheduleService(reg), strings.NewReader(strings.Join(script, "\n")+"\n"), &out, 30)
	ui.Run()
	return saver, out.String()
}

func TestRegisterAndLogin(t *testing.T) {
	reg := registry.New()

	saver, out := runScript(t, reg,
		"2",          // register
		"C001",       // id
		"Alice",      // name
		"1990-06-01", // birth date
		"pw",         // password
		"pw",         // confirm
		"1",          // login
		"C001",
		"pw",
		"1", // view available vehicles
		"8", // logout
		"3", // exit
	)

	assert.Contains(t, out, "Registered C001")
	assert.Contains(t, out, "CLIENT MENU (C001)")
	assert.Equal(t, 1, saver.saves, "registration flushes a snapshot")

	p, err := reg.Person("C001")
	require.NoError(t, err)
	assert.True(t, p.CheckPassword("pw"))
}

func TestAdminAddsVehicleAndClientRents(t *testing.T) {
	reg := registry.New()

	admin, err := models.NewAdmin("A001", "Bob", time.Date(1985, time.January, 20, 0, 0, 0, 0, time.UTC), models.RoleRentalManager)
	require.NoError(t, err)
	require.NoError(t, admin.SetPassword("pw"))
	require.NoError(t, reg.AddPerson(admin))

	client, err := models.NewClient("C001", "Alice", time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, client.SetPassword("pw"))
	require.NoError(t, reg.AddPerson(client))

	saver, out := runScript(t, reg,
		"1", "A001", "pw", // admin login
		"1",          // add vehicle
		"1234ABC",    // plate
		"Seat",       // brand
		"Ibiza",      // model
		"red",        // color
		"light",      // category
		"2018-05-15", // matriculation
		"42000",      // mileage
		"35",         // daily rate
		"11",         // logout
		"1", "C001", "pw", // client login
		"2",          // rent
		"1234ABC",    // plate
		"2024-01-01", // start
		"2024-01-10", // end
		"basic",      // tier
		"8",          // logout
		"3",          // exit
	)

	assert.Contains(t, out, "Added Seat Ibiza (1234ABC)")
	assert.Contains(t, out, "initial mileage 42000")
	assert.Equal(t, 2, saver.saves)

	rentals := reg.PersonRentals("C001")
	require.Len(t, rentals, 1)
	assert.True(t, rentals[0].Active)
	assert.Equal(t, 42000, rentals[0].InitialMileage)
	require.Len(t, saver.last.Rentals, 1)
}

func TestInputExhaustionEndsSession(t *testing.T) {
	reg := registry.New()

	// No exit choice: the input runs dry after one invalid entry and the
	// session must still terminate.
	_, out := runScript(t, reg, "9")

	assert.Contains(t, out, "Invalid choice")
	// One print per loop pass: the invalid entry, then the pass that finds
	// the input exhausted. Nothing beyond that.
	assert.Equal(t, 2, strings.Count(out, "VEHICLE RENTAL SYSTEM"))
}

func TestInputExhaustionEndsNestedMenus(t *testing.T) {
	reg := registry.New()

	client, err := models.NewClient("C001", "Alice", time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, client.SetPassword("pw"))
	require.NoError(t, reg.AddPerson(client))

	// Input ends inside the client menu, before any logout.
	_, out := runScript(t, reg, "1", "C001", "pw")

	assert.Equal(t, 1, strings.Count(out, "CLIENT MENU (C001)"))
}

func TestRejectedRentalDoesNotFlush(t *testing.T) {
	reg := registry.New()

	client, err := models.NewClient("C001", "Alice", time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, client.SetPassword("pw"))
	require.NoError(t, reg.AddPerson(client))

	saver, out := runScript(t, reg,
		"1", "C001", "pw",
		"2",          // rent an unknown vehicle
		"9999ZZZ",
		"2024-01-01",
		"2024-01-10",
		"basic",
		"8",
		"3",
	)

	assert.Contains(t, out, "Could not create rental")
	assert.Zero(t, saver.saves)
}
