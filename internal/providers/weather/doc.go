// Package weather backs the desktop weather widget with an OpenWeather
// compatible upstream, guarded by a circuit breaker.
package weather
