package model

// Documented defaults applied when a weather field is absent.
const (
	DefaultIrradiance = 5.0  // kWh/m²/day
	DefaultTemp       = 25.0 // °C
	DefaultHumidity   = 50.0 // %
	DefaultWindSpeed  = 5.0  // m/s
	DefaultCloudCover = 30.0 // %
)

// WeatherReading is a weather snapshot with optional fields. Nil fields
// take their documented defaults when resolved; Source identifies the
// provider that produced the reading and is informational only.
type WeatherReading struct {
	SolarIrradiance *float64 `json:"solar_irradiance,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	WindSpeed       *float64 `json:"wind_speed,omitempty"`
	CloudCover      *float64 `json:"cloud_cover,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// ResolvedWeather is a WeatherReading with all defaults applied.
type ResolvedWeather struct {
	SolarIrradiance float64
	Temperature     float64
	Humidity        float64
	WindSpeed       float64
	CloudCover      float64
}

// Resolved returns the reading with defaults substituted for absent fields.
func (w WeatherReading) Resolved() ResolvedWeather {
	return ResolvedWeather{
		SolarIrradiance: orDefault(w.SolarIrradiance, DefaultIrradiance),
		Temperature:     orDefault(w.Temperature, DefaultTemp),
		Humidity:        orDefault(w.Humidity, DefaultHumidity),
		WindSpeed:       orDefault(w.WindSpeed, DefaultWindSpeed),
		CloudCover:      orDefault(w.CloudCover, DefaultCloudCover),
	}
}

// NewWeatherReading builds a fully-populated reading.
func NewWeatherReading(irradiance, temp, humidity, wind, cloud float64, source string) WeatherReading {
	return WeatherReading{
		SolarIrradiance: &irradiance,
		Temperature:     &temp,
		Humidity:        &humidity,
		WindSpeed:       &wind,
		CloudCover:      &cloud,
		Source:          source,
	}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
