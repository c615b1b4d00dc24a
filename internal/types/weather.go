package types

// WeatherIcon is the small icon vocabulary understood by the rendering layer.
type WeatherIcon string

const (
	WeatherIconSun       WeatherIcon = "sun"
	WeatherIconCloudSun  WeatherIcon = "cloud-sun"
	WeatherIconCloud     WeatherIcon = "cloud"
	WeatherIconRain      WeatherIcon = "cloud-rain"
	WeatherIconLightning WeatherIcon = "cloud-lightning"
	WeatherIconSnow      WeatherIcon = "cloud-snow"
	WeatherIconFog       WeatherIcon = "cloud-fog"
)

// Weather is the current weather for one displayed city.
type Weather struct {
	Temperature int         `json:"temperature"` // °C
	Condition   string      `json:"condition"`
	Icon        WeatherIcon `json:"icon"`
	Humidity    int         `json:"humidity"`  // %
	WindSpeed   int         `json:"windSpeed"` // km/h
}
