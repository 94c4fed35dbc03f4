package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"irforge/internal/models"
)

func testDevice() models.Device {
	return models.Device{
		Manufacturer: "Sony",
		Model:        "KDL-32",
		FormatTag:    "WINLIRC_RC5",
		Frequency:    38000,
		SourceFile:   "ircodes/Sony/KDL-32.xml",
		OutputPath:   "generated/Sony/KDL-32.ir",
		ConvertedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Commands: []models.Command{
			{Position: 0, Name: "POWER", Type: "parsed", Protocol: "RC5", Address: "00 00 00 00", Command: "11 00 00 00"},
			{Position: 1, Name: "EJECT", Type: "raw", Data: "8993 4497", Frequency: 38000, DutyCycle: 0.33},
		},
	}
}

func TestCatalogSaveDevice_UpsertsAndReplacesCommands(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCatalogSQLite(db)
	dev := testDevice()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertDeviceSQL)).
		WithArgs(dev.Manufacturer, dev.Model, dev.FormatTag, dev.Frequency,
			dev.SourceFile, dev.OutputPath, len(dev.Commands), dev.ConvertedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectDeviceIDSQL)).
		WithArgs(dev.Manufacturer, dev.Model).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(deleteCommandsSQL)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertCommandSQL)).
		WithArgs(int64(7), 0, "POWER", "parsed", "RC5", "00 00 00 00", "11 00 00 00", "", 0, 0.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertCommandSQL)).
		WithArgs(int64(7), 1, "EJECT", "raw", "", "", "", "8993 4497", 38000, 0.33).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	id, err := repo.SaveDevice(ctx(t), dev)
	if err != nil {
		t.Fatalf("SaveDevice: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCatalogSaveDevice_UpsertErrorRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCatalogSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO devices").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = repo.SaveDevice(ctx(t), testDevice())
	if err == nil || !strings.Contains(err.Error(), "upsert device") {
		t.Fatalf("expected upsert error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCatalogListDevices_ManufacturerFilter(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCatalogSQLite(db)

	cols := []string{"id", "manufacturer", "model", "format", "frequency",
		"source_file", "output_path", "command_count", "converted_at"}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(cols).
		AddRow(1, "Sony", "KDL-32", "WINLIRC_RC5", 38000, "a.xml", "out/Sony/KDL-32.ir", 12, now).
		AddRow(2, "Sony", "STR-DE", "PRONTO_HEX", 36000, "b.xml", "out/Sony/STR-DE.ir", 4, now)

	mock.ExpectQuery("SELECT (.+) FROM devices WHERE manufacturer = (.+) ORDER BY manufacturer ASC, model ASC").
		WithArgs("Sony").
		WillReturnRows(rows)

	got, err := repo.ListDevices(ctx(t), " Sony ")
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(got) != 2 || got[0].Model != "KDL-32" || got[1].Model != "STR-DE" {
		t.Fatalf("unexpected devices: %+v", got)
	}
	if got[0].CommandCount != 12 || len(got[0].Commands) != 0 {
		t.Fatalf("listing should carry counts, not commands: %+v", got[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCatalogGetDevice_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCatalogSQLite(db)

	mock.ExpectQuery("SELECT (.+) FROM devices WHERE id = (.+)").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetDevice(ctx(t), 99)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrDeviceNotFound)
	}
}

func TestCatalogGetDevice_LoadsCommandsInOrder(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCatalogSQLite(db)

	devCols := []string{"id", "manufacturer", "model", "format", "frequency",
		"source_file", "output_path", "command_count", "converted_at"}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM devices WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(devCols).
			AddRow(7, "Sony", "KDL-32", "WINLIRC_RC5", 38000, "a.xml", "out.ir", 2, now))

	cmdCols := []string{"id", "position", "name", "type", "protocol", "address",
		"command", "data", "frequency", "duty_cycle"}
	mock.ExpectQuery(regexp.QuoteMeta(selectCommandsSQL)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cmdCols).
			AddRow(1, 0, "POWER", "parsed", "RC5", "00 00 00 00", "11 00 00 00", "", 0, 0.0).
			AddRow(2, 1, "EJECT", "raw", "", "", "", "8993 4497", 38000, 0.33))

	got, err := repo.GetDevice(ctx(t), 7)
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}
	if got.ID != 7 || got.Manufacturer != "Sony" {
		t.Fatalf("unexpected device: %+v", got)
	}
	if len(got.Commands) != 2 || got.Commands[0].Name != "POWER" || got.Commands[1].Name != "EJECT" {
		t.Fatalf("unexpected commands: %+v", got.Commands)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
