// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package seed carga las sedes y productos iniciales desde un archivo YAML.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pollosandino/andino/catalog"
	"github.com/pollosandino/andino/sedes"
	"github.com/pollosandino/andino/spatial"
)

// SedeStore persiste sedes.
type SedeStore interface {
	Save(ctx context.Context, s *sedes.Sede) error
	Count(ctx context.Context) (int, error)
}

// ProductoStore persiste productos.
type ProductoStore interface {
	SaveProducto(ctx context.Context, p catalog.Producto) error
	CountProducts(ctx context.Context) (int, error)
}

// Data es el formato del archivo de semilla.
type Data struct {
	Version   string         `yaml:"version"`
	Sedes     []SedeEntry    `yaml:"sedes"`
	Productos []ProductEntry `yaml:"productos"`
}

// SedeEntry es una sede en el archivo de semilla.
type SedeEntry struct {
	Codigo         string  `yaml:"codigo"`
	Nombre         string  `yaml:"nombre"`
	Ciudad         string  `yaml:"ciudad"`
	Direccion      string  `yaml:"direccion"`
	Telefono       string  `yaml:"telefono"`
	Horario        string  `yaml:"horario"`
	Latitud        float64 `yaml:"latitud"`
	Longitud       float64 `yaml:"longitud"`
	RadioCobertura int     `yaml:"radio_cobertura"`
	Activa         bool    `yaml:"activa"`
}

// ProductEntry es un producto en el archivo de semilla.
type ProductEntry struct {
	Nombre string `yaml:"nombre"`
	Precio int    `yaml:"precio"`
	Stock  int    `yaml:"stock"`
	Activo bool   `yaml:"activo"`
}

// Load parsea el archivo YAML de semilla.
func Load(filepath string) (*Data, error) {
	raw, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}

	return &data, nil
}

// Import guarda todas las entradas del archivo, sobreescribiendo las
// existentes. Devuelve cuántas sedes y productos quedaron guardados.
func Import(ctx context.Context, sedeStore SedeStore, productoStore ProductoStore,
	filepath string,
) (int, int, error) {
	data, err := Load(filepath)
	if err != nil {
		return 0, 0, err
	}

	importedSedes := 0

	for _, entry := range data.Sedes {
		s := &sedes.Sede{
			Codigo:         entry.Codigo,
			Nombre:         entry.Nombre,
			Ciudad:         entry.Ciudad,
			Direccion:      entry.Direccion,
			Telefono:       entry.Telefono,
			Horario:        entry.Horario,
			Point:          spatial.Point{Lat: entry.Latitud, Lng: entry.Longitud},
			RadioCobertura: entry.RadioCobertura,
			Activa:         entry.Activa,
		}
		if err := sedeStore.Save(ctx, s); err != nil {
			return importedSedes, 0, fmt.Errorf("saving sede %s: %w", entry.Codigo, err)
		}

		importedSedes++
	}

	importedProductos := 0

	for _, entry := range data.Productos {
		p := catalog.Producto{
			Nombre: entry.Nombre,
			Precio: entry.Precio,
			Stock:  entry.Stock,
			Activo: entry.Activo,
		}
		if err := productoStore.SaveProducto(ctx, p); err != nil {
			return importedSedes, importedProductos,
				fmt.Errorf("saving producto %s: %w", entry.Nombre, err)
		}

		importedProductos++
	}

	return importedSedes, importedProductos, nil
}

// IfEmpty siembra la base sólo si no hay sedes todavía. La ausencia del
// archivo de semilla no es un error.
func IfEmpty(ctx context.Context, sedeStore SedeStore, productoStore ProductoStore,
	filepath string,
) (bool, error) {
	count, err := sedeStore.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("counting sedes: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		// No seed file exists, that's okay
		return false, nil
	}

	if _, _, err := Import(ctx, sedeStore, productoStore, filepath); err != nil {
		return false, err
	}

	return true, nil
}
