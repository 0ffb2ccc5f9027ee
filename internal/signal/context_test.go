package signal

import (
	"testing"

	"matchup-lab/internal/domain"
)

func TestContextRest_Table(t *testing.T) {
	p := NewContextProvider("rest_edge", domain.ContextRest)

	cases := []struct {
		home, away int
		direction  domain.Direction
		magnitude  float64
	}{
		{10, 4, domain.DirectionHome, 4},
		{7, 5, domain.DirectionHome, 2.5},
		{6, 5, domain.DirectionHome, 1},
		{4, 10, domain.DirectionAway, 4},
		{5, 6, domain.DirectionAway, 1},
	}

	for _, c := range cases {
		ctx := baseContext()
		ctx.HomeRestDays = iptr(c.home)
		ctx.AwayRestDays = iptr(c.away)

		got := p.Evaluate(ctx)
		if got.Direction != c.direction {
			t.Errorf("rest %d vs %d: direction %s, want %s", c.home, c.away, got.Direction, c.direction)
		}
		if got.Magnitude != c.magnitude {
			t.Errorf("rest %d vs %d: magnitude %f, want %f", c.home, c.away, got.Magnitude, c.magnitude)
		}
	}
}

func TestContextRest_EqualOrMissing(t *testing.T) {
	p := NewContextProvider("rest_edge", domain.ContextRest)

	ctx := baseContext()
	ctx.HomeRestDays = iptr(6)
	ctx.AwayRestDays = iptr(6)
	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("equal rest should be inert, got %+v", got)
	}

	if got := p.Evaluate(baseContext()); !got.Inert() {
		t.Errorf("missing rest should be inert, got %+v", got)
	}
}

func TestContextWeather_WindLeansUnder(t *testing.T) {
	p := NewContextProvider("weather", domain.ContextWeather)

	cases := []struct {
		wind      float64
		magnitude float64
	}{
		{22, 6},
		{16, 4},
		{12, 2},
	}

	for _, c := range cases {
		ctx := baseContext()
		ctx.WindMPH = fptr(c.wind)

		got := p.Evaluate(ctx)
		if got.Direction != domain.DirectionUnder {
			t.Errorf("wind %.0f: direction %s, want UNDER", c.wind, got.Direction)
		}
		if got.Magnitude != c.magnitude {
			t.Errorf("wind %.0f: magnitude %f, want %f", c.wind, got.Magnitude, c.magnitude)
		}
		if got.Market != domain.MarketTotal {
			t.Errorf("wind %.0f: market %s, want TOTAL", c.wind, got.Market)
		}
	}
}

func TestContextWeather_ColdAndCombined(t *testing.T) {
	p := NewContextProvider("weather", domain.ContextWeather)

	ctx := baseContext()
	ctx.TemperatureF = fptr(5.0)
	got := p.Evaluate(ctx)
	if got.Direction != domain.DirectionUnder || got.Magnitude != 3 {
		t.Errorf("extreme cold: got %+v, want UNDER magnitude 3", got)
	}

	// Heavy wind plus cold: the strongest row wins.
	ctx.WindMPH = fptr(21.0)
	got = p.Evaluate(ctx)
	if got.Magnitude != 6 {
		t.Errorf("wind should dominate cold: magnitude %f, want 6", got.Magnitude)
	}
}

func TestContextWeather_BenignIsNeutral(t *testing.T) {
	p := NewContextProvider("weather", domain.ContextWeather)

	ctx := baseContext()
	ctx.WindMPH = fptr(5.0)
	ctx.TemperatureF = fptr(68.0)

	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("benign weather should be inert, got %+v", got)
	}
}

func TestContextPace_Table(t *testing.T) {
	p := NewContextProvider("pace", domain.ContextPace)

	cases := []struct {
		home, away float64
		direction  domain.Direction
		magnitude  float64
	}{
		{106, 104, domain.DirectionOver, 4},
		{102, 101, domain.DirectionOver, 2},
		{95, 96, domain.DirectionUnder, 4},
		{98, 99, domain.DirectionUnder, 2},
	}

	for _, c := range cases {
		ctx := baseContext()
		ctx.HomePace = fptr(c.home)
		ctx.AwayPace = fptr(c.away)

		got := p.Evaluate(ctx)
		if got.Direction != c.direction {
			t.Errorf("pace %.0f/%.0f: direction %s, want %s", c.home, c.away, got.Direction, c.direction)
		}
		if got.Magnitude != c.magnitude {
			t.Errorf("pace %.0f/%.0f: magnitude %f, want %f", c.home, c.away, got.Magnitude, c.magnitude)
		}
	}
}

func TestContextPace_AverageIsNeutral(t *testing.T) {
	p := NewContextProvider("pace", domain.ContextPace)

	ctx := baseContext()
	ctx.HomePace = fptr(100.0)
	ctx.AwayPace = fptr(100.0)

	if got := p.Evaluate(ctx); !got.Inert() {
		t.Errorf("league-average pace should be inert, got %+v", got)
	}
}
