package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"solar_estimator/internal/model"
)

// NASAPower fetches daily solar radiation data from the NASA POWER API. It
// needs no API key and reports measured irradiance directly.
type NASAPower struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewNASAPower() *NASAPower {
	return &NASAPower{
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

func (p *NASAPower) Name() string { return "nasa_power" }

// WithBaseURL overrides the API endpoint, for tests.
func (p *NASAPower) WithBaseURL(base string) *NASAPower {
	p.baseURL = base
	return p
}

// Fetch retrieves the most recent daily observation in the past week.
func (p *NASAPower) Fetch(ctx context.Context, lat, lon float64) (model.WeatherReading, error) {
	end := p.now()
	start := end.AddDate(0, 0, -7)

	params := url.Values{}
	params.Add("parameters", "ALLSKY_SFC_SW_DWN,T2M,RH2M,WS10M,CLRSKY_SFC_SW_DWN")
	params.Add("community", "RE")
	params.Add("latitude", fmt.Sprintf("%f", lat))
	params.Add("longitude", fmt.Sprintf("%f", lon))
	params.Add("start", start.Format("20060102"))
	params.Add("end", end.Format("20060102"))
	params.Add("format", "JSON")

	endpoint := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.WeatherReading{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return model.WeatherReading{}, fmt.Errorf("parsing response: %w", err)
	}

	allSky := response.Properties.Parameter["ALLSKY_SFC_SW_DWN"]
	latest := ""
	for date := range allSky {
		if date > latest {
			latest = date
		}
	}
	if latest == "" {
		return model.WeatherReading{}, fmt.Errorf("no irradiance observations in response")
	}

	param := response.Properties.Parameter
	return model.NewWeatherReading(
		allSky[latest],
		param["T2M"][latest],
		param["RH2M"][latest],
		param["WS10M"][latest],
		estimateCloudCover(allSky[latest], param["CLRSKY_SFC_SW_DWN"][latest]),
		p.Name(),
	), nil
}

// estimateCloudCover derives cloud cover from the ratio of observed to
// clear-sky radiation, clamped to [0, 100].
func estimateCloudCover(allSky, clearSky float64) float64 {
	if clearSky <= 0 {
		return 50
	}
	cloudCover := (1 - allSky/clearSky) * 100
	if cloudCover < 0 {
		return 0
	}
	if cloudCover > 100 {
		return 100
	}
	return cloudCover
}
