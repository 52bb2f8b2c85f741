package location

import "backend-ecoroute/internal/shared/geo"

// DefaultLocations is the built-in Costa Rica catalog used for autocomplete.
var DefaultLocations = []Location{
	{ID: "loc-1", Name: "Parque Central de San José", Address: "Avenida Central, Calle Central", City: "San José", Region: "San José", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.9336, Lng: -84.0771}},
	{ID: "loc-2", Name: "Teatro Nacional", Address: "Avenida 2, Calle 3", City: "San José", Region: "San José", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.9334, Lng: -84.0770}},
	{ID: "loc-3", Name: "Museo Nacional", Address: "Calle 17, Avenida Central y Segunda", City: "San José", Region: "San José", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.9331, Lng: -84.0741}},
	{ID: "loc-4", Name: "Mercado Central", Address: "Avenida Central, Calles 6 y 8", City: "San José", Region: "San José", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 9.9344, Lng: -84.0783}},
	{ID: "loc-5", Name: "Estación del Tren al Atlántico (San José)", Address: "Avenida 3, Calle 21", City: "San José", Region: "San José", Category: CategoryTransport, Coordinates: &geo.Coordinate{Lat: 9.9381, Lng: -84.0735}},
	{ID: "loc-6", Name: "Terminal de Buses Coca Cola", Address: "Avenida 1, Calle 16", City: "San José", Region: "San José", Category: CategoryTransport, Coordinates: &geo.Coordinate{Lat: 9.9361, Lng: -84.0816}},
	{ID: "loc-7", Name: "Parada de Buses Sabana-Cementerio", Address: "Paseo Colón", City: "San José", Region: "San José", Category: CategoryTransport, Coordinates: &geo.Coordinate{Lat: 9.9365, Lng: -84.0942}},
	{ID: "loc-8", Name: "Multiplaza Escazú", Address: "Autopista Próspero Fernández", City: "Escazú", Region: "San José", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 9.9239, Lng: -84.1313}},
	{ID: "loc-9", Name: "Mall San Pedro", Address: "San Pedro de Montes de Oca", City: "San Pedro", Region: "San José", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 9.9351, Lng: -84.0518}},
	{ID: "loc-10", Name: "Centro Comercial Lincoln Plaza", Address: "Moravia", City: "Moravia", Region: "San José", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 9.9617, Lng: -84.0506}},
	{ID: "loc-11", Name: "Universidad de Costa Rica (UCR)", Address: "San Pedro de Montes de Oca", City: "San Pedro", Region: "San José", Category: CategoryEducational, Coordinates: &geo.Coordinate{Lat: 9.9373, Lng: -84.0514}},
	{ID: "loc-12", Name: "Universidad Nacional (UNA)", Address: "Campus Omar Dengo, Heredia", City: "Heredia", Region: "Heredia", Category: CategoryEducational, Coordinates: &geo.Coordinate{Lat: 9.9988, Lng: -84.1180}},
	{ID: "loc-13", Name: "Instituto Tecnológico de Costa Rica (TEC)", Address: "Cartago", City: "Cartago", Region: "Cartago", Category: CategoryEducational, Coordinates: &geo.Coordinate{Lat: 9.8562, Lng: -83.9120}},
	{ID: "loc-14", Name: "Hospital San Juan de Dios", Address: "Paseo Colón, San José", City: "San José", Region: "San José", Category: CategoryMedical, Coordinates: &geo.Coordinate{Lat: 9.9366, Lng: -84.0900}},
	{ID: "loc-15", Name: "Hospital Calderón Guardia", Address: "Avenida 7, San José", City: "San José", Region: "San José", Category: CategoryMedical, Coordinates: &geo.Coordinate{Lat: 9.9435, Lng: -84.0762}},
	{ID: "loc-16", Name: "Hospital México", Address: "La Uruca, San José", City: "San José", Region: "San José", Category: CategoryMedical, Coordinates: &geo.Coordinate{Lat: 9.9558, Lng: -84.1145}},
	{ID: "loc-17", Name: "Aeropuerto Internacional Juan Santamaría", Address: "Alajuela", City: "Alajuela", Region: "Alajuela", Category: CategoryTransport, Coordinates: &geo.Coordinate{Lat: 9.9939, Lng: -84.2088}},
	{ID: "loc-18", Name: "Parque Central de Heredia", Address: "Centro de Heredia", City: "Heredia", Region: "Heredia", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.9989, Lng: -84.1166}},
	{ID: "loc-19", Name: "Mall Paseo de las Flores", Address: "Heredia", City: "Heredia", Region: "Heredia", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 10.0025, Lng: -84.1219}},
	{ID: "loc-20", Name: "Basílica de Nuestra Señora de los Ángeles", Address: "Cartago", City: "Cartago", Region: "Cartago", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.8623, Lng: -83.9186}},
	{ID: "loc-21", Name: "Ruinas de Cartago", Address: "Centro de Cartago", City: "Cartago", Region: "Cartago", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 9.8646, Lng: -83.9197}},
	{ID: "loc-22", Name: "Parque Juan Santamaría", Address: "Centro de Alajuela", City: "Alajuela", Region: "Alajuela", Category: CategoryLandmark, Coordinates: &geo.Coordinate{Lat: 10.0162, Lng: -84.2118}},
	{ID: "loc-23", Name: "City Mall Alajuela", Address: "Alajuela", City: "Alajuela", Region: "Alajuela", Category: CategoryCommercial, Coordinates: &geo.Coordinate{Lat: 10.0223, Lng: -84.2057}},
	{ID: "loc-24", Name: "Casa Presidencial", Address: "Zapote, San José", City: "San José", Region: "San José", Category: CategoryGovernment, Coordinates: &geo.Coordinate{Lat: 9.9227, Lng: -84.0587}},
	{ID: "loc-25", Name: "Asamblea Legislativa", Address: "Cuesta de Moras, San José", City: "San José", Region: "San José", Category: CategoryGovernment, Coordinates: &geo.Coordinate{Lat: 9.9333, Lng: -84.0740}},
	{ID: "loc-26", Name: "Barrio Escalante", Address: "Barrio Escalante, San José", City: "San José", Region: "San José", Category: CategoryResidential, Coordinates: &geo.Coordinate{Lat: 9.9285, Lng: -84.0681}},
	{ID: "loc-27", Name: "Los Yoses", Address: "Los Yoses, San José", City: "San José", Region: "San José", Category: CategoryResidential, Coordinates: &geo.Coordinate{Lat: 9.9301, Lng: -84.0624}},
	{ID: "loc-28", Name: "Rohrmoser", Address: "Rohrmoser, San José", City: "San José", Region: "San José", Category: CategoryResidential, Coordinates: &geo.Coordinate{Lat: 9.9471, Lng: -84.1057}},
	{ID: "loc-29", Name: "Guadalupe", Address: "Guadalupe, San José", City: "Guadalupe", Region: "San José", Category: CategoryResidential, Coordinates: &geo.Coordinate{Lat: 9.9515, Lng: -84.0572}},
	{ID: "loc-30", Name: "Curridabat", Address: "Curridabat, San José", City: "Curridabat", Region: "San José", Category: CategoryResidential, Coordinates: &geo.Coordinate{Lat: 9.9104, Lng: -84.0387}},
}
