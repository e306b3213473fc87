package geo

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"pacbot/maze"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	Convey("Given a Location at every direction", t, func() {
		for d := maze.Up; d <= maze.None; d++ {
			loc := Location{Row: 17, Col: 5}
			loc.SetDirection(d)

			Convey("Pack then Unpack should reproduce it", func() {
				got := Unpack(loc.Pack())
				So(got, ShouldResemble, loc)
			})
		}
	})
}

func TestAdvanceMovesAndRecordsDirection(t *testing.T) {
	loc := Location{Row: 10, Col: 10}
	loc.Advance(maze.Right)
	if !loc.At(10, 11) {
		t.Fatalf("Advance(Right) expected (10,11), got (%d,%d)", loc.Row, loc.Col)
	}
	if loc.Direction() != maze.Right {
		t.Fatalf("Direction() = %v, want Right", loc.Direction())
	}
}

func TestSentinelIsEmpty(t *testing.T) {
	if !Sentinel().Empty() {
		t.Fatal("Sentinel() should be Empty")
	}
	if (Location{Row: 0, Col: 0}).Empty() {
		t.Fatal("(0,0) should not be Empty")
	}
}

func TestNegativeDirectionComponentPacksCorrectly(t *testing.T) {
	loc := Location{Row: 0, Col: 0}
	loc.SetDirection(maze.Up) // dRow = -1
	b := loc.Pack()
	got := Unpack(b)
	if got.RowDir != -1 {
		t.Fatalf("RowDir = %d, want -1", got.RowDir)
	}
}
