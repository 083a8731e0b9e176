package dataset

import (
	"strings"
	"testing"
	"time"
)

const sessionsCSV = `session_id,user_id,session_date,traffic_channel,total_pageviews,conversion_flag,notes,score
s1,u1,2024-01-05 10:00:00,Organic,3,1,hello,1.5
s2,u2,2024-01-06,,5,0,,2
s3,u1,2024-01-07T08:30:00Z,Paid,,True,x,
`

func TestReadCSVDecodesDeclaredKinds(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sessionsCSV), SessionSchema)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}

	dates, _ := tbl.Column("session_date")
	if dates.Kind() != KindTime {
		t.Fatalf("session_date decoded as %s", dates.Kind())
	}
	if want := time.Date(2024, 1, 7, 8, 30, 0, 0, time.UTC); !dates.Time(2).Equal(want) {
		t.Errorf("expected %v, got %v", want, dates.Time(2))
	}

	channel, _ := tbl.Column("traffic_channel")
	if !channel.IsNull(1) {
		t.Errorf("empty cell should be null")
	}

	pageviews, _ := tbl.Column("total_pageviews")
	if pageviews.Kind() != KindNumber || !pageviews.IsNull(2) || pageviews.Float(1) != 5 {
		t.Errorf("unexpected pageviews column: kind=%s", pageviews.Kind())
	}

	flag, _ := tbl.Column("conversion_flag")
	if flag.Float(2) != 1 {
		t.Errorf("expected True to decode as 1, got %v", flag.Float(2))
	}

	// user_id is declared as text even though values might look numeric elsewhere.
	users, _ := tbl.Column("user_id")
	if users.Kind() != KindString {
		t.Errorf("user_id decoded as %s", users.Kind())
	}

	// Undeclared columns are inferred.
	notes, _ := tbl.Column("notes")
	score, _ := tbl.Column("score")
	if notes.Kind() != KindString || score.Kind() != KindNumber {
		t.Errorf("inferred kinds: notes=%s score=%s", notes.Kind(), score.Kind())
	}
}

func TestReadCSVKeepsMalformedNumericColumnAsText(t *testing.T) {
	data := "session_id,total_order_value\ns1,10\ns2,ten\n"
	tbl, err := ReadCSV(strings.NewReader(data), SessionSchema)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	col, ok := tbl.Column("total_order_value")
	if !ok || col.Kind() != KindString {
		t.Fatalf("expected text column, got ok=%v kind=%s", ok, col.Kind())
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), ItemSchema)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if !tbl.IsEmpty() || tbl.Name() != "items" {
		t.Fatalf("expected empty items table, got %d rows named %q", tbl.Len(), tbl.Name())
	}
}

func TestReadCSVRaggedRowFails(t *testing.T) {
	data := "a,b\n1,2\n3\n"
	if _, err := ReadCSV(strings.NewReader(data), ItemSchema); err == nil {
		t.Fatal("expected an error for a row with the wrong field count")
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("product_name,price_usd\n"), ItemSchema)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if tbl.Len() != 0 || !tbl.Has("price_usd") {
		t.Fatalf("expected zero rows with columns present, got %d rows, columns %v", tbl.Len(), tbl.Columns())
	}
}

func TestReadCSVStripsByteOrderMark(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\uFEFFproduct_name,price_usd\nBear,49.99\n"), ItemSchema)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if !tbl.Has("product_name") {
		t.Fatalf("expected product_name after the BOM is stripped, got columns %v", tbl.Columns())
	}
	names, _ := tbl.Column("product_name")
	if names.String(0) != "Bear" {
		t.Errorf("unexpected value %q", names.String(0))
	}
}
