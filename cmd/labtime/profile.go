package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/store"
)

// runProfile saves the occupant profile or, with -show, prints it. Values not
// given keep their stored value, as the form opens prefilled.
func runProfile(ctx context.Context, config *Config, args []string) error {
	fs := newFlagSet("profile", config)
	var (
		input reservation.Profile
		from  string
		show  bool
	)
	fs.StringVar(&input.UserName, "name", "", "Name as shown on the reservation")
	fs.StringVar(&input.UserEmail, "email", "", "Contact email address")
	fs.StringVar(&input.UserPhone, "phone", "", "Phone extension")
	fs.StringVar(&input.UserPassword, "password", "", "Deletion password for the reservation")
	fs.StringVar(&input.UserLab, "lab", "", "Lab code, as the value of the lab dropdown")
	fs.StringVar(&from, "from", "", "Read the profile from a YAML file (name, email, phone, password, lab)")
	fs.BoolVar(&show, "show", false, "Print the stored profile and exit")
	if err := config.parse(fs, args); err != nil {
		return err
	}

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.close()

	stored, err := store.Profile(ctx, a.store)
	if err != nil {
		return err
	}
	if show {
		printProfile(stored.Masked())
		return nil
	}

	if from != "" {
		fileProfile, err := loadProfile(from)
		if err != nil {
			return err
		}
		stored = mergeProfile(stored, fileProfile)
	}
	p := mergeProfile(stored, input)

	if err := p.Validate(); err != nil {
		var verr *reservation.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Message)
			a.logger.Infof("Profile not saved: %s", verr.Message)
			return nil
		}
		return err
	}

	if err := store.SetProfile(ctx, a.store, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	a.logger.Infof("Profile saved for %s", p.UserName)
	fmt.Println("Saved!")
	return nil
}

// loadProfile reads a profile from a YAML file.
func loadProfile(path string) (reservation.Profile, error) {
	var p reservation.Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return p, nil
}

// mergeProfile overlays the non-empty fields of update on base.
func mergeProfile(base, update reservation.Profile) reservation.Profile {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&base.UserName, update.UserName},
		{&base.UserEmail, update.UserEmail},
		{&base.UserPhone, update.UserPhone},
		{&base.UserPassword, update.UserPassword},
		{&base.UserLab, update.UserLab},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return base
}

func printProfile(p reservation.Profile) {
	fmt.Printf("Name:     %s\n", p.UserName)
	fmt.Printf("Email:    %s\n", p.UserEmail)
	fmt.Printf("Phone:    %s\n", p.UserPhone)
	fmt.Printf("Password: %s\n", p.UserPassword)
	fmt.Printf("Lab:      %s\n", p.UserLab)
}
