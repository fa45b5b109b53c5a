package routes

import (
	"MyPlants/internal/mail"
	"MyPlants/internal/notification"
	"MyPlants/internal/plant"
	"MyPlants/internal/settings"
	"MyPlants/internal/vault"
)

// Interface bindings for the fx graph. Each consumer declares the narrow
// interface it needs; these map them onto the concrete providers.

func plantStore(r *plant.Repository) plant.Store { return r }
func plantLister(r *plant.Repository) settings.PlantLister { return r }
func plantSource(r *plant.Repository) notification.PlantSource { return r }
func notifiedMarker(r *plant.Repository) notification.NotifiedMarker { return r }
func settingsStore(r *settings.Repository) settings.Store { return r }
func settingsFinder(r *settings.Repository) notification.SettingsFinder { return r }
func encrypter(v *vault.Vault) settings.Encrypter { return v }
func decrypter(v *vault.Vault) notification.Decrypter { return v }
func channelFactory(f *mail.Factory) notification.ChannelFactory { return f }
func linkVerifier(l *notification.Links) plant.LinkVerifier { return l }
func linkBuilder(l *notification.Links) notification.LinkBuilder { return l }
func channelResolver(r *notification.Resolver) notification.ChannelResolver { return r }
func dueScanner(s *notification.Scanner) notification.DueScanner { return s }
func groupDispatcher(d *notification.Dispatcher) notification.GroupDispatcher { return d }
func cycler(s *notification.NotificationService) notification.Cycler { return s }
